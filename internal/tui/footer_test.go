package tui

import (
	"strings"
	"testing"

	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	eng := engine.New(model.DefaultEngineConfig())
	eng.RecordTyping("u1", "hello world", 2.0) // 11 runes in 2s

	m := NewModel(eng, nil, "u1", 5)
	m.messages = 3

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Msgs 3", "5.5 chars/s", "66 WPM"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "cache") {
		t.Fatalf("expected no cache segment before any prediction: %s", out)
	}

	eng.PredictNext("u1", "hello", 3)
	out = m.renderFooter()
	if !strings.Contains(out, "cache 0%") {
		t.Fatalf("expected cache segment after a miss: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
