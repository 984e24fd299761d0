package ngram

import "testing"

func TestCompleteEmptyTable(t *testing.T) {
	if got := Complete([]string{"x"}, Table{}, 10); got != "x" {
		t.Errorf("Complete with empty table = %q, want seed back unchanged", got)
	}
	if got := Complete([]string{"x", "y"}, nil, 10); got != "x y" {
		t.Errorf("Complete with nil table = %q, want %q", got, "x y")
	}
}

func TestCompleteFollowsChain(t *testing.T) {
	table := BuildModel([]string{"a b c d e f"}, 1)

	if got := Complete([]string{"a"}, table, 10); got != "a b c d e f" {
		t.Errorf("Complete() = %q, want %q", got, "a b c d e f")
	}
}

func TestCompleteStopsAtMaxLength(t *testing.T) {
	table := BuildModel([]string{"a b c d e f g h i j k l"}, 1)

	got := Complete([]string{"a"}, table, 4)
	if got != "a b c d" {
		t.Errorf("Complete() = %q, want it cut off at 4 words", got)
	}
}

func TestCompleteStopsAtPeriod(t *testing.T) {
	table := BuildModel([]string{"he ran home. then he slept"}, 1)

	got := Complete([]string{"he"}, table, 10)
	if got != "he ran home." {
		t.Errorf("Complete() = %q, want it stop at the period", got)
	}
}

func TestCompleteTieBreak(t *testing.T) {
	// Both continuations of "x" are equally likely; the lexicographically
	// smaller word wins every step.
	table := BuildModel([]string{"x b", "x a"}, 1)

	if got := Complete([]string{"x"}, table, 2); got != "x a" {
		t.Errorf("Complete() = %q, want deterministic tie-break to %q", got, "x a")
	}
}

func TestCompleteSeedShorterThanOrder(t *testing.T) {
	table := BuildModel([]string{"a b c d"}, 2)

	if got := Complete([]string{"a"}, table, 10); got != "a" {
		t.Errorf("Complete() = %q, want seed unchanged when shorter than the order", got)
	}
}

func TestCompleteUnseenContext(t *testing.T) {
	table := BuildModel([]string{"a b c"}, 1)

	if got := Complete([]string{"z"}, table, 10); got != "z" {
		t.Errorf("Complete() = %q, want seed unchanged for unseen context", got)
	}
}

func TestCompleteDefaultMaxLength(t *testing.T) {
	table := BuildModel([]string{"a b c d e f g h i j k l m n"}, 1)

	got := Complete([]string{"a"}, table, 0)
	want := "a b c d e f g h i j"
	if got != want {
		t.Errorf("Complete() with zero max = %q, want default cap of %d words (%q)",
			got, DefaultMaxCompletionLength, want)
	}
}
