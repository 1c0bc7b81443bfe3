// Package sim replays synthetic typing traffic against the prediction engine.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/generator"
	"github.com/ultrasecure/typeahead/internal/model"
	"github.com/ultrasecure/typeahead/internal/store"
)

// progressInterval is how often the runner logs scenario progress.
const progressInterval = 2 * time.Second

// Result contains measurements from one scenario run.
type Result struct {
	Scenario    string
	Users       int
	Messages    int64
	Predictions int64
	Suggested   int64 // predictions that returned at least one candidate
	Errors      int64
	Elapsed     time.Duration
	Throughput  float64 // recorded messages plus predictions per second
	Latency     LatencyStats
	Metrics     model.Metrics
}

// HitRate returns the cache hit fraction over the run.
func (r Result) HitRate() float64 {
	total := r.Metrics.CacheHits + r.Metrics.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(r.Metrics.CacheHits) / float64(total)
}

// SuggestionRate returns the fraction of predictions that produced candidates.
func (r Result) SuggestionRate() float64 {
	if r.Predictions == 0 {
		return 0
	}
	return float64(r.Suggested) / float64(r.Predictions)
}

// LatencyStats contains percentile prediction latencies.
type LatencyStats struct {
	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
}

type runCounters struct {
	messages    int64
	predictions int64
	suggested   int64
	errors      int64
}

// Runner drives scenario traffic into an engine.
type Runner struct {
	eng   *engine.Engine
	words []string
	st    *store.Store // optional event archive, may be nil
}

// NewRunner builds a runner over an engine and a word pool.
func NewRunner(eng *engine.Engine, words []string, st *store.Store) *Runner {
	return &Runner{eng: eng, words: words, st: st}
}

// Run executes the scenario and reports measurements. A cancelled or expired
// context stops the workers early and returns the partial result.
func (r *Runner) Run(ctx context.Context, sc Scenario) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, err
	}
	if len(r.words) == 0 {
		return Result{}, fmt.Errorf("runner has no words to draw from")
	}
	if sc.Archive && r.st == nil {
		return Result{}, fmt.Errorf("scenario wants archiving but no store is attached")
	}

	seed := sc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	userIDs := make([]string, sc.Users)
	for i := range userIDs {
		userIDs[i] = "sim-" + uuid.New().String()
	}

	workers := sc.Workers
	if workers > sc.Users {
		workers = sc.Users
	}

	runCtx := ctx
	if sc.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(sc.Duration))
		defer cancel()
	}

	var (
		wg        sync.WaitGroup
		counters  runCounters
		nextUser  = int64(-1)
		latencies = make([][]time.Duration, workers)
	)

	start := time.Now()
	stopProgress := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopProgress:
				return
			case <-ticker.C:
				slog.Info("scenario progress",
					"scenario", sc.Name,
					"messages", atomic.LoadInt64(&counters.messages),
					"predictions", atomic.LoadInt64(&counters.predictions))
			}
		}
	}()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerID := w
		latencies[workerID] = make([]time.Duration, 0, sc.Messages*4)

		go func() {
			defer wg.Done()

			for {
				idx := int(atomic.AddInt64(&nextUser, 1))
				if idx >= len(userIDs) {
					return
				}
				if runCtx.Err() != nil {
					return
				}
				r.runUser(runCtx, sc, seed, idx, userIDs[idx], &latencies[workerID], &counters)
			}
		}()
	}

	wg.Wait()
	close(stopProgress)
	elapsed := time.Since(start)

	all := make([]time.Duration, 0, counters.predictions)
	for _, workerLatencies := range latencies {
		all = append(all, workerLatencies...)
	}

	return Result{
		Scenario:    sc.Name,
		Users:       sc.Users,
		Messages:    counters.messages,
		Predictions: counters.predictions,
		Suggested:   counters.suggested,
		Errors:      counters.errors,
		Elapsed:     elapsed,
		Throughput:  float64(counters.messages+counters.predictions) / elapsed.Seconds(),
		Latency:     latencyStats(all),
		Metrics:     r.eng.Metrics(),
	}, nil
}

// runUser types one user's whole message stream. Keeping a user on a single
// worker preserves the word adjacency the engine learns from.
func (r *Runner) runUser(ctx context.Context, sc Scenario, seed int64, idx int, userID string, lats *[]time.Duration, c *runCounters) {
	gen := generator.NewSeeded(seed + int64(idx))
	rnd := rand.New(rand.NewSource(seed + int64(idx) + 1))
	punct := []rune(sc.PunctSet)

	var events []model.TypingEvent
	if sc.Archive {
		events = make([]model.TypingEvent, 0, sc.Messages)
	}

	for m := 0; m < sc.Messages; m++ {
		if ctx.Err() != nil {
			break
		}
		words := gen.GenerateZipf(r.words, sc.WordsPerMsg, sc.Zipf, sc.CapsPct, sc.PunctPct, punct)
		text := strings.Join(words, " ")

		// Ask for a completion mid-message, as a client would while typing.
		if sc.PredictEvery > 0 && m%sc.PredictEvery == 0 {
			cut := 1 + rnd.Intn(len(words))
			query := strings.Join(words[:cut], " ")
			begin := time.Now()
			preds := r.eng.PredictNext(userID, query, sc.Limit)
			*lats = append(*lats, time.Since(begin))
			atomic.AddInt64(&c.predictions, 1)
			if len(preds) > 0 {
				atomic.AddInt64(&c.suggested, 1)
			}
		}

		speed := 3 + rnd.Float64()*6 // chars per second
		elapsedSec := float64(utf8.RuneCountInString(text)) / speed
		r.eng.RecordTyping(userID, text, elapsedSec)
		atomic.AddInt64(&c.messages, 1)

		if sc.Archive {
			events = append(events, model.TypingEvent{
				UserID:     userID,
				Text:       text,
				ElapsedSec: elapsedSec,
				RecordedAt: time.Now().UTC(),
			})
		}
	}

	if sc.Archive && len(events) > 0 && ctx.Err() == nil {
		if err := r.st.InsertEvents(ctx, events); err != nil {
			atomic.AddInt64(&c.errors, 1)
			slog.Warn("failed to archive user events", "user", userID, "error", err)
		}
	}
}

func latencyStats(latencies []time.Duration) LatencyStats {
	if len(latencies) == 0 {
		return LatencyStats{}
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	var sum time.Duration
	for _, lat := range sorted {
		sum += lat
	}

	return LatencyStats{
		Mean: sum / time.Duration(len(sorted)),
		P50:  sorted[len(sorted)*50/100],
		P95:  sorted[len(sorted)*95/100],
		P99:  sorted[len(sorted)*99/100],
	}
}
