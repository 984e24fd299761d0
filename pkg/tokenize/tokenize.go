/*
Package tokenize adapts external sub-word tokenizers for the prediction demo.

The n-gram core never depends on tokenization; the request handlers consume a
Tokenizer purely as an I/O boundary to echo tokens and ids back to the
frontend.
*/
package tokenize

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used unless configured otherwise.
const DefaultEncoding = "cl100k_base"

// Tokenizer maps raw text to a sequence of sub-word tokens and their numeric
// ids. Case is preserved; the two slices are always the same length.
type Tokenizer interface {
	Tokenize(text string) (tokens []string, ids []int, err error)
}

// Tiktoken tokenizes with an OpenAI BPE encoding via tiktoken-go.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding ("cl100k_base" and friends). Loading
// may fetch the encoding's BPE ranks on first use, so callers should treat a
// failure as non-fatal and fall back to Words.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Tokenize returns the BPE ids for text along with each id decoded back to
// its own text fragment.
func (t *Tiktoken) Tokenize(text string) ([]string, []int, error) {
	ids := t.enc.Encode(text, nil, nil)
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = t.enc.Decode([]int{id})
	}
	return tokens, ids, nil
}

// Words is a dependency-free fallback tokenizer. It splits on whitespace and
// assigns ids by order of first appearance within the call, so repeated words
// share an id but ids are not stable across calls.
type Words struct{}

func (Words) Tokenize(text string) ([]string, []int, error) {
	tokens := strings.Fields(text)
	ids := make([]int, len(tokens))
	seen := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		id, ok := seen[tok]
		if !ok {
			id = len(seen)
			seen[tok] = id
		}
		ids[i] = id
	}
	return tokens, ids, nil
}
