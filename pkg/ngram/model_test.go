package ngram

import (
	"reflect"
	"testing"
)

func TestBuildModel(t *testing.T) {
	table := BuildModel([]string{"a b c"}, 2)

	want := Table{"a b": {"c": 1}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("BuildModel() = %v, want %v", table, want)
	}
}

func TestBuildModelSkipsShortSentences(t *testing.T) {
	// Two words cannot form a 2-word context plus a next word.
	table := BuildModel([]string{"a b"}, 2)
	if len(table) != 0 {
		t.Errorf("expected empty table for too-short sentence, got %v", table)
	}
}

func TestBuildModelEmptyInput(t *testing.T) {
	for _, order := range []int{1, 2, 3, 4} {
		if table := BuildModel(nil, order); len(table) != 0 {
			t.Errorf("BuildModel(nil, %d) = %v, want empty table", order, table)
		}
		if table := BuildModel([]string{"", "   "}, order); len(table) != 0 {
			t.Errorf("BuildModel(blank, %d) = %v, want empty table", order, table)
		}
	}
}

func TestBuildModelAccumulatesAcrossSentences(t *testing.T) {
	sentences := []string{"a b c", "a b d", "x a b c"}
	table := BuildModel(sentences, 2)

	counts, ok := table["a b"]
	if !ok {
		t.Fatalf("expected context 'a b' in table %v", table)
	}
	if counts["c"] != 2 || counts["d"] != 1 {
		t.Errorf("context 'a b' counts = %v, want c:2 d:1", counts)
	}
	if _, ok := table["x a"]; !ok {
		t.Errorf("expected context 'x a' in table %v", table)
	}
}

func TestBuildModelIdempotent(t *testing.T) {
	sentences := []string{"the cat sat on the mat", "the dog sat on the rug"}
	first := BuildModel(sentences, 2)
	second := BuildModel(sentences, 2)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("building twice from identical input diverged: %v vs %v", first, second)
	}
}

func TestTableOrder(t *testing.T) {
	tests := []struct {
		name      string
		sentences []string
		order     int
		want      int
	}{
		{"unigram", []string{"a b"}, 1, 1},
		{"trigram", []string{"a b c d"}, 3, 3},
		{"empty", nil, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := BuildModel(tt.sentences, tt.order)
			if got := table.Order(); got != tt.want {
				t.Errorf("Order() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContextKey(t *testing.T) {
	if got := ContextKey([]string{"a", "b", "c"}); got != "a b c" {
		t.Errorf("ContextKey() = %q, want %q", got, "a b c")
	}
	if got := ContextKey(nil); got != "" {
		t.Errorf("ContextKey(nil) = %q, want empty", got)
	}
}
