package ngram

import (
	"fmt"
	"sort"
	"strings"
)

// Option is a single (prefix, highlighted span) pair found in the input
// sentences. Context is the display string covering both the prefix and the
// highlighted words; Prefix holds the words before the span and Highlighted
// the span itself, both in sentence order.
type Option struct {
	Context     string   `json:"context"`
	Highlighted []string `json:"highlighted_words"`
	Prefix      []string `json:"non_highlighted_words"`

	// SentenceIndex records which input sentence produced the option. It is
	// part of the dedup identity but not of the wire format or sort order.
	SentenceIndex int `json:"-"`
}

// EnumerateOptions generates every context option of span length nWords found
// in the sentences. Sentences with fewer than nWords words are skipped. For
// each qualifying sentence, one option is produced per span start position:
// the prefix is everything before the span and the highlighted words are the
// span itself, so an nWords of 1 yields one option per word position.
//
// Options are deduplicated by (sentence index, span start, highlighted words),
// which keeps identical text at different positions or sentences distinct
// while making re-registration at the same key an idempotent overwrite. The
// result is ordered ascending by (prefix length, lowercased prefix text,
// lowercased highlighted text); the sentence index is deliberately not part
// of the sort key, so options from different sentences interleave by textual
// content. Exact textual ties are resolved by dedup key so the output is
// independent of construction order.
func EnumerateOptions(sentences []string, nWords int) []Option {
	if nWords < 1 {
		return nil
	}
	byKey := make(map[string]Option)
	for idx, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) < nWords {
			continue
		}
		for i := 0; i+nWords <= len(words); i++ {
			highlighted := words[i : i+nWords]
			key := fmt.Sprintf("%d:%d:%s", idx, i, strings.Join(highlighted, " "))
			byKey[key] = Option{
				Context:       ContextKey(words[:i+nWords]),
				Highlighted:   append([]string(nil), highlighted...),
				Prefix:        append([]string(nil), words[:i]...),
				SentenceIndex: idx,
			}
		}
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	options := make([]Option, 0, len(keys))
	for _, key := range keys {
		options = append(options, byKey[key])
	}
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if len(a.Prefix) != len(b.Prefix) {
			return len(a.Prefix) < len(b.Prefix)
		}
		ap := strings.ToLower(strings.Join(a.Prefix, " "))
		bp := strings.ToLower(strings.Join(b.Prefix, " "))
		if ap != bp {
			return ap < bp
		}
		return strings.ToLower(strings.Join(a.Highlighted, " ")) <
			strings.ToLower(strings.Join(b.Highlighted, " "))
	})
	return options
}

// FirstOptionPredictions builds an nWords-order model over the sentences and
// returns the sorted prediction list for the lowest-sorted option's
// highlighted span. It returns nil when no sentence yields an option.
func FirstOptionPredictions(sentences []string, nWords int) []Prediction {
	options := EnumerateOptions(sentences, nWords)
	if len(options) == 0 {
		return nil
	}
	table := BuildModel(sentences, nWords)
	return Predictions(table.Probabilities(options[0].Highlighted))
}
