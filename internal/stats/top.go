// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/model"
)

// TopWords ranks distinct words by frequency across archived events.
// Ties break alphabetically so the ranking is deterministic.
func TopWords(events []model.TypingEvent, n int) []model.WordCount {
	if n <= 0 || len(events) == 0 {
		return nil
	}
	counts := make(map[string]uint64)
	for _, ev := range events {
		for _, word := range engine.Tokenize(ev.Text) {
			counts[word]++
		}
	}
	items := make([]model.WordCount, 0, len(counts))
	for word, count := range counts {
		items = append(items, model.WordCount{Word: word, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Word < items[j].Word
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// RenderTopWords prints a ranked word frequency table.
func RenderTopWords(w io.Writer, words []model.WordCount) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No words recorded.")
		return err
	}
	cols := []Column{
		{Title: "#", Right: true},
		{Title: "Word"},
		{Title: "Count", Right: true},
	}
	rows := make([][]string, 0, len(words))
	for i, wc := range words {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			wc.Word,
			humanize.Comma(int64(wc.Count)),
		})
	}
	if _, err := fmt.Fprintln(w, "Top Words"); err != nil {
		return err
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
