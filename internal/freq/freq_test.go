package freq

import "testing"

func TestIncrementAndCount(t *testing.T) {
	ix := New()
	if got := ix.Count("hello"); got != 0 {
		t.Fatalf("expected 0 for unseen word, got %d", got)
	}
	ix.Increment("hello")
	ix.Increment("hello")
	ix.Increment("world")
	if got := ix.Count("hello"); got != 2 {
		t.Fatalf("expected count 2, got %d", got)
	}
	if got := ix.Count("world"); got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}
	if got := ix.Distinct(); got != 2 {
		t.Fatalf("expected 2 distinct words, got %d", got)
	}
}

func TestIncrementFoldsCase(t *testing.T) {
	ix := New()
	ix.Increment("Hello")
	ix.Increment("HELLO")
	ix.Increment("hello")
	if got := ix.Count("hello"); got != 3 {
		t.Fatalf("expected folded count 3, got %d", got)
	}
	if got := ix.Count("HeLLo"); got != 3 {
		t.Fatalf("expected case-insensitive lookup to see 3, got %d", got)
	}
	if got := ix.Distinct(); got != 1 {
		t.Fatalf("expected 1 distinct word after folding, got %d", got)
	}
}

func TestCountsNeverDecrease(t *testing.T) {
	ix := New()
	prev := uint64(0)
	for i := 0; i < 50; i++ {
		ix.Increment("stable")
		got := ix.Count("stable")
		if got < prev {
			t.Fatalf("count decreased from %d to %d", prev, got)
		}
		prev = got
	}
	if prev != 50 {
		t.Fatalf("expected final count 50, got %d", prev)
	}
}
