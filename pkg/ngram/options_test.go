package ngram

import (
	"math"
	"reflect"
	"testing"
)

func TestEnumerateOptionsSingleWord(t *testing.T) {
	options := EnumerateOptions([]string{"a b c"}, 1)

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d: %v", len(options), options)
	}
	wantPrefixes := [][]string{{}, {"a"}, {"a", "b"}}
	wantHighlights := [][]string{{"a"}, {"b"}, {"c"}}
	wantContexts := []string{"a", "a b", "a b c"}
	for i := range options {
		if len(options[i].Prefix) != len(wantPrefixes[i]) ||
			(len(wantPrefixes[i]) > 0 && !reflect.DeepEqual(options[i].Prefix, wantPrefixes[i])) {
			t.Errorf("option[%d].Prefix = %v, want %v", i, options[i].Prefix, wantPrefixes[i])
		}
		if !reflect.DeepEqual(options[i].Highlighted, wantHighlights[i]) {
			t.Errorf("option[%d].Highlighted = %v, want %v", i, options[i].Highlighted, wantHighlights[i])
		}
		if options[i].Context != wantContexts[i] {
			t.Errorf("option[%d].Context = %q, want %q", i, options[i].Context, wantContexts[i])
		}
	}
}

func TestEnumerateOptionsSpans(t *testing.T) {
	options := EnumerateOptions([]string{"a b c d"}, 2)

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d: %v", len(options), options)
	}
	// First span has an empty prefix, later spans carry everything before them.
	if len(options[0].Prefix) != 0 || !reflect.DeepEqual(options[0].Highlighted, []string{"a", "b"}) {
		t.Errorf("first option = %+v, want empty prefix and highlight [a b]", options[0])
	}
	if !reflect.DeepEqual(options[1].Prefix, []string{"a"}) ||
		!reflect.DeepEqual(options[1].Highlighted, []string{"b", "c"}) {
		t.Errorf("second option = %+v, want prefix [a] highlight [b c]", options[1])
	}
	if !reflect.DeepEqual(options[2].Prefix, []string{"a", "b"}) ||
		!reflect.DeepEqual(options[2].Highlighted, []string{"c", "d"}) {
		t.Errorf("third option = %+v, want prefix [a b] highlight [c d]", options[2])
	}
}

func TestEnumerateOptionsSkipsShortSentences(t *testing.T) {
	options := EnumerateOptions([]string{"a", "b c d"}, 3)

	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d: %v", len(options), options)
	}
	if options[0].SentenceIndex != 1 {
		t.Errorf("option came from sentence %d, want 1", options[0].SentenceIndex)
	}
}

func TestEnumerateOptionsKeepsCrossSentenceDuplicates(t *testing.T) {
	// Identical text in different sentences stays distinct; the dedup key
	// includes the sentence index.
	options := EnumerateOptions([]string{"a b", "a b"}, 1)

	if len(options) != 4 {
		t.Fatalf("expected 4 options, got %d: %v", len(options), options)
	}
}

func TestEnumerateOptionsOrderingInterleavesSentences(t *testing.T) {
	// Sort order is purely textual; the sentence index never enters the key.
	options := EnumerateOptions([]string{"b z", "a y"}, 1)

	wantContexts := []string{"a", "b", "a y", "b z"}
	if len(options) != len(wantContexts) {
		t.Fatalf("expected %d options, got %d: %v", len(wantContexts), len(options), options)
	}
	for i, want := range wantContexts {
		if options[i].Context != want {
			t.Errorf("option[%d].Context = %q, want %q", i, options[i].Context, want)
		}
	}
}

func TestEnumerateOptionsCaseInsensitiveSort(t *testing.T) {
	options := EnumerateOptions([]string{"Zed apple", "alpha Bravo"}, 1)

	// Empty-prefix options sort by lowercased highlight: "alpha" before "Zed".
	if options[0].Context != "alpha" || options[1].Context != "Zed" {
		t.Errorf("unexpected empty-prefix ordering: %q, %q", options[0].Context, options[1].Context)
	}
}

func TestEnumerateOptionsDeterministic(t *testing.T) {
	sentences := []string{"a b a b", "b a b a", "a a a a"}
	first := EnumerateOptions(sentences, 2)
	for i := 0; i < 10; i++ {
		if next := EnumerateOptions(sentences, 2); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d diverged from first run", i)
		}
	}
}

func TestFirstOptionPredictions(t *testing.T) {
	preds := FirstOptionPredictions([]string{"a b c"}, 2)

	if len(preds) != 1 {
		t.Fatalf("expected 1 prediction, got %v", preds)
	}
	if preds[0].Word != "c" || math.Abs(preds[0].Probability-1.0) > 1e-9 {
		t.Errorf("prediction = %+v, want word c with probability 1.0", preds[0])
	}
}

func TestFirstOptionPredictionsNoOptions(t *testing.T) {
	if preds := FirstOptionPredictions([]string{"a"}, 2); preds != nil {
		t.Errorf("expected nil predictions when nothing qualifies, got %v", preds)
	}
}
