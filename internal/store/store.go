// Package store handles SQLite persistence for the typing archive.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ultrasecure/typeahead/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for archived typing events and sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS typing_events (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			text TEXT NOT NULL,
			elapsed_sec REAL NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			user_id TEXT NOT NULL,
			messages INTEGER NOT NULL,
			words INTEGER NOT NULL,
			chars INTEGER NOT NULL,
			chars_per_sec REAL NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_events_user ON typing_events(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertEvent archives one recorded typing event.
func (s *Store) InsertEvent(ctx context.Context, ev model.TypingEvent) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO typing_events (user_id, text, elapsed_sec, recorded_at)
		 VALUES (?, ?, ?, ?)`,
		ev.UserID,
		ev.Text,
		ev.ElapsedSec,
		ev.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertEvents archives a batch of typing events in one transaction.
func (s *Store) InsertEvents(ctx context.Context, events []model.TypingEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO typing_events (user_id, text, elapsed_sec, recorded_at)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, ev := range events {
		if _, err = stmt.ExecContext(ctx, ev.UserID, ev.Text, ev.ElapsedSec, ev.RecordedAt.Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEvents returns archived events in chronological order. A non-empty
// userID filters to that user; a positive limit keeps only the most
// recent events, still oldest first.
func (s *Store) ListEvents(ctx context.Context, userID string, limit int) ([]model.TypingEvent, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if userID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, userID)
	}
	where := strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id, user_id, text, elapsed_sec, recorded_at
		FROM typing_events
		WHERE %s
		ORDER BY id ASC`, where)
	if limit > 0 {
		query = fmt.Sprintf(`SELECT id, user_id, text, elapsed_sec, recorded_at FROM (
			SELECT id, user_id, text, elapsed_sec, recorded_at
			FROM typing_events
			WHERE %s
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC`, where)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.TypingEvent
	for rows.Next() {
		var ev model.TypingEvent
		var recordedAt string
		if err := rows.Scan(&ev.EventID, &ev.UserID, &ev.Text, &ev.ElapsedSec, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		ev.RecordedAt = parsed
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountEvents returns the number of archived typing events.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM typing_events`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InsertSession stores a completed demo or bench session.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, user_id, messages, words, chars, chars_per_sec, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.UserID,
		stats.Messages,
		stats.Words,
		stats.Chars,
		stats.CharsPerSec,
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, cfg.UserID)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, user_id, messages, words, chars, chars_per_sec, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.UserID, &agg.Messages, &agg.Words, &agg.Chars, &agg.CharsPerSec, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
