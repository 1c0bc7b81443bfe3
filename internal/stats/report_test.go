package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ultrasecure/typeahead/internal/model"
	"github.com/ultrasecure/typeahead/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typeahead.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	for i, text := range []string{"hello there friend", "hello again", "see you again"} {
		ev := model.TypingEvent{
			UserID:     "alice",
			Text:       text,
			ElapsedSec: 2.0,
			RecordedAt: base.Add(time.Duration(i) * time.Second),
		}
		if _, err := st.InsertEvent(ctx, ev); err != nil {
			t.Fatalf("insert event: %v", err)
		}
	}
	var ids []int64
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		id, err := st.InsertSession(ctx, model.SessionStats{
			StartedAt:   start,
			EndedAt:     end,
			UserID:      "alice",
			Messages:    3,
			Words:       8,
			Chars:       40,
			CharsPerSec: 4.0,
			DurationMs:  end.Sub(start).Milliseconds(),
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		UserID:   "alice",
		Last:     2,
		TopWords: 2,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.TotalEvents != 3 {
		t.Fatalf("expected 3 archived events, got %d", report.TotalEvents)
	}
	if len(report.TopWords) != 2 {
		t.Fatalf("expected 2 top words, got %+v", report.TopWords)
	}
	// hello and again tie at two; alphabetical order decides.
	if report.TopWords[0].Word != "again" || report.TopWords[1].Word != "hello" {
		t.Fatalf("unexpected top words: %+v", report.TopWords)
	}
}

func TestRenderReportSections(t *testing.T) {
	report := Report{
		Sessions: []model.SessionAggregate{
			{SessionID: 1, EndedAt: time.Unix(60, 0), UserID: "bob", Messages: 2, Words: 5, Chars: 25, CharsPerSec: 3.5, DurationMs: 7000},
			{SessionID: 2, EndedAt: time.Unix(120, 0), UserID: "bob", Messages: 4, Words: 9, Chars: 50, CharsPerSec: 4.5, DurationMs: 11000},
		},
		TopWords:    []model.WordCount{{Word: "hello", Count: 4}},
		TotalEvents: 6,
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 2, 80, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, section := range []string{"Archived events: 6", "Summary", "Recent Sessions", "Top Words", "Typing Speed"} {
		if !strings.Contains(out, section) {
			t.Fatalf("expected %q in report output:\n%s", section, out)
		}
	}
}
