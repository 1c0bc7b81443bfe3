package sim

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/model"
	"github.com/ultrasecure/typeahead/internal/store"
)

var testWords = []string{"hello", "world", "how", "are", "you", "today", "friend", "again"}

func testScenario() Scenario {
	sc := DefaultScenario()
	sc.Name = "test"
	sc.Users = 3
	sc.Workers = 2
	sc.Messages = 4
	sc.WordsPerMsg = 3
	sc.PredictEvery = 1
	sc.Seed = 1
	sc.PunctPct = 0
	sc.CapsPct = 0
	return sc
}

func TestRunnerRecordsAndPredicts(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	runner := NewRunner(eng, testWords, nil)

	res, err := runner.Run(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if res.Messages != 12 {
		t.Fatalf("expected 12 messages, got %d", res.Messages)
	}
	if res.Predictions != 12 {
		t.Fatalf("expected 12 predictions, got %d", res.Predictions)
	}
	if res.Errors != 0 {
		t.Fatalf("expected no errors, got %d", res.Errors)
	}
	if res.Metrics.TotalUsers != 3 {
		t.Fatalf("expected 3 tracked users, got %d", res.Metrics.TotalUsers)
	}
	if res.Metrics.TotalDistinctWords == 0 {
		t.Fatalf("expected distinct words after traffic")
	}
	if res.Elapsed <= 0 || res.Throughput <= 0 {
		t.Fatalf("expected positive elapsed and throughput, got %s %f", res.Elapsed, res.Throughput)
	}
}

func TestRunnerArchivesEvents(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typeahead.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	eng := engine.New(model.DefaultEngineConfig())
	runner := NewRunner(eng, testWords, st)

	sc := testScenario()
	sc.Archive = true
	if _, err := runner.Run(context.Background(), sc); err != nil {
		t.Fatalf("run scenario: %v", err)
	}

	count, err := st.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 12 {
		t.Fatalf("expected 12 archived events, got %d", count)
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	runner := NewRunner(eng, testWords, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	var res Result
	var err error
	go func() {
		res, err = runner.Run(ctx, testScenario())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not stop on cancelled context")
	}
	if err != nil {
		t.Fatalf("expected partial result without error, got %v", err)
	}
	if res.Messages != 0 {
		t.Fatalf("expected no messages on pre-cancelled context, got %d", res.Messages)
	}
}

func TestRunnerRequiresWords(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	runner := NewRunner(eng, nil, nil)
	if _, err := runner.Run(context.Background(), testScenario()); err == nil {
		t.Fatalf("expected error for empty word pool")
	}
}

func TestRunnerRequiresStoreForArchive(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	runner := NewRunner(eng, testWords, nil)
	sc := testScenario()
	sc.Archive = true
	if _, err := runner.Run(context.Background(), sc); err == nil {
		t.Fatalf("expected error when archiving without a store")
	}
}
