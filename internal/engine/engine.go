// Package engine implements adaptive next-word prediction over per-user
// typing history.
package engine

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ultrasecure/typeahead/internal/freq"
	"github.com/ultrasecure/typeahead/internal/history"
	"github.com/ultrasecure/typeahead/internal/model"
)

// Engine learns word adjacencies from typed messages and predicts likely
// continuations. One instance serves all users. Every operation holds the
// engine mutex for its full duration, keeping history, frequency and cache
// updates mutually consistent; per-call work is bounded by the history
// window, so the coarse lock stays cheap.
type Engine struct {
	mu      sync.Mutex
	cfg     model.EngineConfig
	history *history.Store
	freq    *freq.Index
	cache   *predictionCache
}

// New builds an engine with the given bounds. Non-positive bounds fall
// back to their defaults, except MaxUsers where 0 keeps every user.
func New(cfg model.EngineConfig) *Engine {
	def := model.DefaultEngineConfig()
	if cfg.HistoryWords <= 0 {
		cfg.HistoryWords = def.HistoryWords
	}
	if cfg.SpeedSamples <= 0 {
		cfg.SpeedSamples = def.SpeedSamples
	}
	if cfg.MaxUsers < 0 {
		cfg.MaxUsers = 0
	}
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = def.CacheEntries
	}
	if cfg.EvictBatch <= 0 {
		cfg.EvictBatch = def.EvictBatch
	}
	if cfg.KeyTailRunes <= 0 {
		cfg.KeyTailRunes = def.KeyTailRunes
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	return &Engine{
		cfg:     cfg,
		history: history.New(cfg.HistoryWords, cfg.SpeedSamples, cfg.MaxUsers),
		freq:    freq.New(),
		cache:   newPredictionCache(cfg.CacheEntries, cfg.EvictBatch),
	}
}

// RecordTyping ingests one sent message for userID. Tokens enter the
// user's history and the global frequency index in lower case; when
// elapsedSec is positive the message's character rate joins the user's
// speed window. Cache entries are left alone: they age out by the entry
// bound, not by invalidation.
func (e *Engine) RecordTyping(userID, text string, elapsedSec float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	words := Tokenize(text)
	e.history.Append(userID, words)
	for _, w := range words {
		e.freq.Increment(w)
	}
	if elapsedSec > 0 {
		e.history.RecordSpeed(userID, float64(utf8.RuneCountInString(text))/elapsedSec)
	}
}

// PredictNext returns up to limit likely continuations of currentText for
// userID, most likely first. Results are memoized by (user, trailing
// fragment of currentText); a hit is served as cached even when newer
// typing has arrived since. A non-positive limit falls back to the
// configured default.
func (e *Engine) PredictNext(userID, currentText string, limit int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	key := cacheKey{user: userID, tail: tailRunes(currentText, e.cfg.KeyTailRunes)}
	if preds, ok := e.cache.get(key); ok {
		e.cache.hits++
		return append([]string(nil), preds...)
	}

	words := Tokenize(currentText)
	if len(words) == 0 {
		// Nothing to complete; not worth a cache slot.
		return nil
	}
	e.cache.misses++

	last := words[len(words)-1]
	hist := e.history.Snapshot(userID)
	var candidates []string
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(hist); i++ {
		if !strings.HasPrefix(hist[i], last) {
			continue
		}
		next := hist[i+1]
		if _, dup := seen[next]; dup {
			continue
		}
		seen[next] = struct{}{}
		candidates = append(candidates, next)
	}
	// Stable sort keeps discovery order for equal-frequency candidates.
	sort.SliceStable(candidates, func(a, b int) bool {
		return e.freq.Count(candidates[a]) > e.freq.Count(candidates[b])
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	e.cache.put(key, candidates)
	return append([]string(nil), candidates...)
}

// AverageTypingSpeed returns the mean of the user's recent speed samples
// in characters per second, 0 when no samples exist.
func (e *Engine) AverageTypingSpeed(userID string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.AverageSpeed(userID)
}

// Metrics returns a consistent snapshot of engine-wide counters.
func (e *Engine) Metrics() model.Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.Metrics{
		TotalUsers:         e.history.Users(),
		TotalDistinctWords: e.freq.Distinct(),
		CacheSize:          e.cache.size(),
		CacheHits:          e.cache.hits,
		CacheMisses:        e.cache.misses,
		CacheEvictions:     e.cache.evictions,
	}
}

// Seed bulk-loads words into the frequency index without touching any
// user's history, giving ranking a baseline before real traffic arrives.
func (e *Engine) Seed(words []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, w := range words {
		e.freq.Increment(w)
	}
}

// Tokenize splits text on whitespace and folds each token to lower case.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// tailRunes returns the last n runes of s, or all of s when shorter.
func tailRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
