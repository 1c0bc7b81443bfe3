// Package freq maintains the global word frequency index.
package freq

import "strings"

// Index maps lowercased words to occurrence counts across all users.
// Counts only grow. The index carries no locking of its own; callers
// serialize access.
type Index struct {
	counts map[string]uint64
}

// New returns an empty index.
func New() *Index {
	return &Index{counts: make(map[string]uint64)}
}

// Increment records one observation of word, folding it to lower case.
func (ix *Index) Increment(word string) {
	ix.counts[strings.ToLower(word)]++
}

// Count returns the observed count for word, 0 if unseen.
func (ix *Index) Count(word string) uint64 {
	return ix.counts[strings.ToLower(word)]
}

// Distinct returns the number of distinct words observed.
func (ix *Index) Distinct() int {
	return len(ix.counts)
}
