package ngram

import "strings"

// Table is a frequency table for a single model order. It maps a context key
// (the context's words joined by a single space) to the words observed
// directly after that context and their occurrence counts. A context is only
// present if at least one next word was observed, so every inner map is
// non-empty and every count is at least 1.
type Table map[string]map[string]int

// ContextKey returns the table key for an ordered sequence of words.
// Context matching is exact and case-sensitive.
func ContextKey(words []string) string {
	return strings.Join(words, " ")
}

// BuildModel builds a frequency table of the given order from raw sentences.
// Each sentence is split into words on whitespace; a sentence with fewer than
// order+1 words cannot form a single (context, next word) pair and
// contributes nothing. Counts only accumulate, so the result depends solely
// on the sentence list and the order, never on iteration order, and building
// twice from the same input yields identical tables.
func BuildModel(sentences []string, order int) Table {
	table := make(Table)
	if order < 1 {
		return table
	}
	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) < order+1 {
			continue
		}
		for i := 0; i+order < len(words); i++ {
			key := ContextKey(words[i : i+order])
			next := words[i+order]
			counts, ok := table[key]
			if !ok {
				counts = make(map[string]int)
				table[key] = counts
			}
			counts[next]++
		}
	}
	return table
}

// Order reports the context length the table was built with, derived from an
// arbitrary key. A table is always built for one fixed order, so all keys
// share the same length. An empty table implies no order and returns 0.
func (t Table) Order() int {
	for key := range t {
		return len(strings.Fields(key))
	}
	return 0
}
