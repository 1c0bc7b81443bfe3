package stats

import (
	"testing"

	"github.com/ultrasecure/typeahead/internal/model"
)

func TestTopWordsRanksByFrequency(t *testing.T) {
	events := []model.TypingEvent{
		{Text: "Go go GO"},
		{Text: "go build it"},
		{Text: "build it now"},
	}
	top := TopWords(events, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 words, got %d", len(top))
	}
	if top[0].Word != "go" || top[0].Count != 4 {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	// build and it tie at 2; alphabetical order breaks the tie.
	if top[1].Word != "build" || top[2].Word != "it" {
		t.Fatalf("unexpected tie order: %+v", top[1:])
	}
}

func TestTopWordsBounds(t *testing.T) {
	events := []model.TypingEvent{{Text: "one two"}}
	if top := TopWords(events, 0); top != nil {
		t.Fatalf("expected nil for n=0, got %v", top)
	}
	if top := TopWords(nil, 5); top != nil {
		t.Fatalf("expected nil for no events, got %v", top)
	}
	if top := TopWords(events, 10); len(top) != 2 {
		t.Fatalf("expected all distinct words, got %v", top)
	}
}
