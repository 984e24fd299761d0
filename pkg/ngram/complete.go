package ngram

import "strings"

// DefaultMaxCompletionLength bounds greedy completion when the caller does
// not pick a limit of its own.
const DefaultMaxCompletionLength = 10

// Complete greedily extends seed using the table until the sentence reaches
// maxLength words, the model has no continuation for the current context, or
// the appended word ends with a period. Each step takes the last n words
// (n being the table's order) and appends the single most probable next word,
// breaking ties in favor of the lexicographically smallest candidate. There
// is no sampling and no backtracking, so the output is fully deterministic.
// An empty table returns the seed joined unchanged, as does a seed shorter
// than the table's order. A maxLength of zero or less falls back to
// DefaultMaxCompletionLength.
func Complete(seed []string, table Table, maxLength int) string {
	if len(table) == 0 {
		return strings.Join(seed, " ")
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxCompletionLength
	}
	order := table.Order()

	current := make([]string, len(seed))
	copy(current, seed)

	for len(current) < maxLength {
		if len(current) < order {
			break
		}
		dist := table.Probabilities(current[len(current)-order:])
		if len(dist) == 0 {
			break
		}
		next := argmax(dist)
		current = append(current, next)
		if strings.HasSuffix(next, ".") {
			break
		}
	}
	return strings.Join(current, " ")
}

// argmax returns the highest-probability word in dist, preferring the
// lexicographically smaller word on equal probabilities.
func argmax(dist map[string]float64) string {
	var best string
	bestP := -1.0
	for word, p := range dist {
		if p > bestP || (p == bestP && word < best) {
			best = word
			bestP = p
		}
	}
	return best
}
