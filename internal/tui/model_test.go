package tui

import (
	"testing"
	"time"

	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/model"
)

func TestSendMessageFeedsEngine(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	m := NewModel(eng, nil, "u1", 5)

	m.input.SetValue("hello world")
	m.typingStart = time.Now().Add(-2 * time.Second)
	m.sendMessage()

	if m.messages != 1 || m.words != 2 || m.chars != 11 {
		t.Fatalf("unexpected counters: msgs=%d words=%d chars=%d", m.messages, m.words, m.chars)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected cleared input, got %q", m.input.Value())
	}
	if !m.typingStart.IsZero() {
		t.Fatalf("expected typing start reset")
	}
	preds := eng.PredictNext("u1", "hello", 5)
	if len(preds) != 1 || preds[0] != "world" {
		t.Fatalf("expected engine to learn adjacency, got %v", preds)
	}
}

func TestSendMessageIgnoresBlankInput(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	m := NewModel(eng, nil, "u1", 5)

	m.input.SetValue("   ")
	m.sendMessage()
	if m.messages != 0 {
		t.Fatalf("expected blank message to be dropped, got %d messages", m.messages)
	}
}

func TestAcceptSuggestionAppendsFirstCandidate(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	eng.RecordTyping("u1", "hello world", 1.0)

	m := NewModel(eng, nil, "u1", 5)
	m.input.SetValue("hello")
	m.refreshSuggestions()
	if len(m.suggestions) == 0 {
		t.Fatalf("expected a suggestion for known prefix")
	}

	m.acceptSuggestion()
	if m.input.Value() != "hello world " {
		t.Fatalf("expected accepted suggestion in input, got %q", m.input.Value())
	}
}

func TestAcceptSuggestionNoCandidatesIsNoop(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	m := NewModel(eng, nil, "u1", 5)

	m.input.SetValue("zzz")
	m.refreshSuggestions()
	m.acceptSuggestion()
	if m.input.Value() != "zzz" {
		t.Fatalf("expected input untouched, got %q", m.input.Value())
	}
}
