package tui

import "testing"

func TestWrapLineBreaksAtSpace(t *testing.T) {
	got := wrapLine("hello world again", 11)
	want := "hello\nworld again"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapLineHardBreaksLongWord(t *testing.T) {
	got := wrapLine("abcdefghij", 4)
	want := "abcd\nefgh\nij"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapLineCountsWideRunes(t *testing.T) {
	got := wrapLine("日本語です", 4)
	want := "日本\n語で\nす"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapLineZeroWidthPassesThrough(t *testing.T) {
	if got := wrapLine("abc", 0); got != "abc" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestWrapTextWrapsEachLine(t *testing.T) {
	got := wrapText("ab\ncd", 1)
	want := "a\nb\nc\nd"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
