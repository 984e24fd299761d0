/*
Package vocab provides a per-request prefix index over a sentence corpus's
vocabulary, backing the frontend's word type-ahead. The index is rebuilt from
the request's own sentences on every call and never cached across requests.
*/
package vocab

import (
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Word is a vocabulary entry with its total occurrence count in the corpus.
type Word struct {
	Text  string `json:"word"`
	Count int    `json:"count"`
}

// Index is a patricia-trie prefix index over the unique words of a corpus.
// Lookups are case-insensitive; the original casing of the first occurrence
// is what gets reported back.
type Index struct {
	trie *patricia.Trie
}

type entry struct {
	text  string
	count int
}

// NewIndex builds an index from the sentences, splitting on whitespace and
// accumulating per-word counts.
func NewIndex(sentences []string) *Index {
	trie := patricia.NewTrie()
	for _, sentence := range sentences {
		for _, word := range strings.Fields(sentence) {
			key := patricia.Prefix(strings.ToLower(word))
			if item := trie.Get(key); item != nil {
				e := item.(*entry)
				e.count++
				continue
			}
			trie.Insert(key, &entry{text: word, count: 1})
		}
	}
	return &Index{trie: trie}
}

// Lookup returns up to limit words starting with prefix, ordered by corpus
// frequency descending and then alphabetically. A limit of zero or less
// returns every match.
func (ix *Index) Lookup(prefix string, limit int) []Word {
	var words []Word
	_ = ix.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		e := item.(*entry)
		words = append(words, Word{Text: e.text, Count: e.count})
		return nil
	})
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Text < words[j].Text
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// Size reports how many unique words the index holds.
func (ix *Index) Size() int {
	n := 0
	_ = ix.trie.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}
