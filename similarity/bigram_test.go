package similarity

import "testing"

func TestBigramShortStrings(t *testing.T) {
	b := bigram{}
	tests := []struct {
		a, b string
		want float64
	}{
		{"a", "a", 1},
		{"a", "b", 0},
		{"a", "ab", 0},
		{"ab", "a", 0},
		{"", "", 1},
	}
	for _, tt := range tests {
		if got := b.Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBigramRepeatedGrams(t *testing.T) {
	// "aaa" has bigrams {aa, aa}; "aa" has {aa}: one in common out of three
	got := bigram{}.Similarity("aaa", "aa")
	want := 2.0 / 3.0
	if got != want {
		t.Errorf("Similarity(aaa, aa) = %v, want %v", got, want)
	}
}

func TestBigramComparatorMatchesSimilarity(t *testing.T) {
	b := bigram{}
	cmp := b.NewComparator("yorkshire", 0)
	for _, candidate := range []string{"york", "yorkshire", "shire", "orleans", "y", ""} {
		score, ok := cmp.Compare(candidate)
		if !ok {
			t.Errorf("Compare(%q) rejected with zero cutoff", candidate)
		}
		if want := b.Similarity("yorkshire", candidate); score != want {
			t.Errorf("Compare(%q) = %v, Similarity = %v", candidate, score, want)
		}
	}
}

func TestBigramComparatorCutoff(t *testing.T) {
	cmp := bigram{}.NewComparator("abcdef", 0.5)

	if _, ok := cmp.Compare("ab"); ok {
		t.Error("candidate whose best possible score is below the cutoff was accepted")
	}
	if _, ok := cmp.Compare("xyzxyz"); ok {
		t.Error("unrelated candidate was accepted")
	}
	score, ok := cmp.Compare("abcdeg")
	if !ok {
		t.Errorf("close candidate rejected with score %v", score)
	}
}
