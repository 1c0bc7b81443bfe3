package generator

import "testing"

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}
	a := NewSeeded(42).Generate(words, 10, 0, 0, nil)
	b := NewSeeded(42).Generate(words, 10, 0, 0, nil)
	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("expected 10 words, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestGenerateZipfFavorsFrontOfList(t *testing.T) {
	words := []string{"first", "second", "third", "fourth", "fifth"}
	out := NewSeeded(7).GenerateZipf(words, 2000, 1.5, 0, 0, nil)
	counts := make(map[string]int)
	for _, w := range out {
		counts[w]++
	}
	if counts["first"] <= counts["fifth"] {
		t.Fatalf("expected zipf bias toward list front, got %v", counts)
	}
}

func TestGenerateAppliesCapsAndPunct(t *testing.T) {
	words := []string{"word"}
	out := NewSeeded(1).Generate(words, 5, 1.0, 1.0, []rune{'!'})
	for _, w := range out {
		if w != "Word!" {
			t.Fatalf("expected caps and punct on every word, got %q", w)
		}
	}
}

func TestGenerateEmptyInputs(t *testing.T) {
	g := NewSeeded(1)
	if out := g.Generate(nil, 5, 0, 0, nil); out != nil {
		t.Fatalf("expected nil for empty word list, got %v", out)
	}
	if out := g.GenerateZipf([]string{"a"}, 0, 2, 0, 0, nil); out != nil {
		t.Fatalf("expected nil for zero count, got %v", out)
	}
}
