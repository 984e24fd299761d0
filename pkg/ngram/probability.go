package ngram

import (
	"fmt"
	"sort"
)

// Prediction pairs a candidate next word with its probability.
type Prediction struct {
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}

// Probabilities returns the probability distribution over next words for the
// given context. An unseen context is not an error and yields an empty map.
// For a present context, each value is count/total and the values sum to 1
// within floating-point tolerance. The distribution is derived on every call
// and never cached.
func (t Table) Probabilities(context []string) map[string]float64 {
	counts, ok := t[ContextKey(context)]
	if !ok {
		return map[string]float64{}
	}
	total := 0
	for _, count := range counts {
		total += count
	}
	if total <= 0 {
		// BuildModel never stores a context without at least one observed
		// next word. A zero total means the table was corrupted externally,
		// which is a logic error and not a handled condition.
		panic(fmt.Sprintf("ngram: context %q present with zero total count", ContextKey(context)))
	}
	dist := make(map[string]float64, len(counts))
	for word, count := range counts {
		dist[word] = float64(count) / float64(total)
	}
	return dist
}

// Predictions converts a distribution into a list sorted by probability
// descending. Equal probabilities are ordered by word ascending so the
// result does not depend on map iteration order.
func Predictions(dist map[string]float64) []Prediction {
	preds := make([]Prediction, 0, len(dist))
	for word, p := range dist {
		preds = append(preds, Prediction{Word: word, Probability: p})
	}
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].Probability != preds[j].Probability {
			return preds[i].Probability > preds[j].Probability
		}
		return preds[i].Word < preds[j].Word
	})
	return preds
}
