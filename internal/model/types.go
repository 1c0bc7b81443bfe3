// Package model defines shared data structures.
package model

import "time"

// EngineConfig defines prediction engine bounds.
type EngineConfig struct {
	HistoryWords int // per-user word history bound
	SpeedSamples int // per-user typing speed sample bound
	MaxUsers     int // tracked user bound; 0 disables eviction
	CacheEntries int // prediction cache entry bound
	EvictBatch   int // cache entries dropped per overflow
	KeyTailRunes int // trailing query runes used in cache keys
	DefaultLimit int // predictions returned when the caller asks for <= 0
}

// DefaultEngineConfig returns the stock engine bounds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistoryWords: 100,
		SpeedSamples: 10,
		MaxUsers:     10000,
		CacheEntries: 1000,
		EvictBatch:   100,
		KeyTailRunes: 20,
		DefaultLimit: 5,
	}
}

// Metrics is a point-in-time snapshot of engine state.
type Metrics struct {
	TotalUsers         int
	TotalDistinctWords int
	CacheSize          int
	CacheHits          uint64
	CacheMisses        uint64
	CacheEvictions     uint64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	UserID      string
	Since       *time.Time
	Last        int
	CurveWindow int
	TopWords    int
}

// TypingEvent is one archived recordTyping call.
type TypingEvent struct {
	EventID    int64
	UserID     string
	Text       string
	ElapsedSec float64
	RecordedAt time.Time
}

// SessionStats captures a completed demo or bench session.
type SessionStats struct {
	StartedAt   time.Time
	EndedAt     time.Time
	UserID      string
	Messages    int
	Words       int
	Chars       int
	CharsPerSec float64
	DurationMs  int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	UserID      string
	Messages    int
	Words       int
	Chars       int
	CharsPerSec float64
	DurationMs  int64
}

// WordCount pairs a word with its observed frequency.
type WordCount struct {
	Word  string
	Count uint64
}
