package similarity

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			sim, err := New(kind)
			if err != nil {
				t.Fatalf("New(%q) error = %v", kind, err)
			}
			if sim == nil {
				t.Fatalf("New(%q) returned nil", kind)
			}
			if k, ok := sim.(interface{ Kind() Kind }); !ok || k.Kind() != kind {
				t.Errorf("New(%q) returned a backend for a different kind", kind)
			}
		})
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New("soundex")
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestIdenticalStringsScoreOne(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			sim, _ := New(kind)
			got := sim.Similarity("dawn", "dawn")
			if math.Abs(got-1) > 1e-5 {
				t.Errorf("Similarity(dawn, dawn) = %v, want 1", got)
			}
		})
	}
}

func TestSimilarityScores(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		a, b string
		min  float64
		max  float64
	}{
		{
			name: "jaro winkler one substitution",
			kind: JaroWinkler,
			a:    "dawm",
			b:    "dawn",
			min:  0.8,
			max:  0.9,
		},
		{
			name: "levenshtein one substitution",
			kind: Levenshtein,
			a:    "dawm",
			b:    "dawn",
			min:  0.75 - 1e-6,
			max:  0.75 + 1e-6,
		},
		{
			name: "hamming unequal lengths",
			kind: Hamming,
			a:    "dawn",
			b:    "dawning",
			min:  0,
			max:  0,
		},
		{
			name: "bigram partial overlap",
			kind: Bigram,
			a:    "night",
			b:    "nacht",
			min:  0.25 - 1e-9,
			max:  0.25 + 1e-9,
		},
		{
			name: "bigram nothing in common",
			kind: Bigram,
			a:    "abc",
			b:    "xyz",
			min:  0,
			max:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := New(tt.kind)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got := sim.Similarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Similarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}
