package lexis

import (
	"math/rand"
	"slices"
	"testing"
)

func TestTopKBelowCapacity(t *testing.T) {
	top := NewTopK[string](5)
	top.Insert("a", 1)
	top.Insert("b", 3)
	top.Insert("c", 2)

	got := top.Results()
	want := []Scored[string]{{"b", 3}, {"c", 2}, {"a", 1}}
	if !slices.Equal(got, want) {
		t.Errorf("Results() = %v, want %v", got, want)
	}
}

func TestTopKEviction(t *testing.T) {
	top := NewTopK[string](2)
	top.Insert("a", 1)
	top.Insert("b", 2)
	top.Insert("c", 3) // evicts a
	top.Insert("d", 0) // rejected

	got := top.Results()
	want := []Scored[string]{{"c", 3}, {"b", 2}}
	if !slices.Equal(got, want) {
		t.Errorf("Results() = %v, want %v", got, want)
	}
	if top.Len() != 2 {
		t.Errorf("Len() = %d, want 2", top.Len())
	}
}

func TestTopKTies(t *testing.T) {
	tests := []struct {
		name   string
		insert []Scored[string]
		want   []Scored[string]
	}{
		{
			name:   "equal score with larger item does not evict",
			insert: []Scored[string]{{"b", 1}, {"c", 1}},
			want:   []Scored[string]{{"b", 1}},
		},
		{
			name:   "equal score with smaller item evicts",
			insert: []Scored[string]{{"b", 1}, {"a", 1}},
			want:   []Scored[string]{{"a", 1}},
		},
		{
			name:   "results ordered by item on equal scores",
			insert: []Scored[string]{{"z", 1}, {"m", 5}, {"y", 1}},
			want:   []Scored[string]{{"m", 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := NewTopK[string](1)
			for _, s := range tt.insert {
				top.Insert(s.Item, s.Score)
			}
			if got := top.Results(); !slices.Equal(got, tt.want) {
				t.Errorf("Results() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopKOverwrite(t *testing.T) {
	top := NewTopK[int](2)
	top.Insert(1, 5)
	top.Insert(2, 4)
	top.Insert(1, 1) // 1 drops to the bottom
	top.Insert(3, 2) // evicts 1

	want := []Scored[int]{{2, 4}, {3, 2}}
	if got := top.Results(); !slices.Equal(got, want) {
		t.Errorf("Results() = %v, want %v", got, want)
	}
}

func TestTopKZeroCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		top := NewTopK[int](capacity)
		top.Insert(1, 10)
		if top.Len() != 0 || len(top.Results()) != 0 {
			t.Errorf("capacity %d tracked items", capacity)
		}
	}
}

// The tracked set must equal the true top-C whatever order the
// observations arrive in.
func TestTopKPermutationInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	observations := make([]Scored[int], 200)
	for i := range observations {
		// few distinct scores, so ties are everywhere
		observations[i] = Scored[int]{Item: i, Score: float64(rng.Intn(10))}
	}

	sorted := slices.Clone(observations)
	slices.SortFunc(sorted, func(a, b Scored[int]) int {
		if beats(a, b) {
			return -1
		}
		if beats(b, a) {
			return 1
		}
		return 0
	})

	for _, capacity := range []int{1, 7, 50, 199, 200, 300} {
		want := sorted[:min(capacity, len(sorted))]
		for trial := 0; trial < 20; trial++ {
			shuffled := slices.Clone(observations)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

			top := NewTopK[int](capacity)
			for _, s := range shuffled {
				top.Insert(s.Item, s.Score)
			}
			if got := top.Results(); !slices.Equal(got, want) {
				t.Fatalf("capacity %d trial %d: Results() differs from the true top-k", capacity, trial)
			}
		}
	}
}

func BenchmarkTopKInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	scores := make([]float64, 10_000)
	for i := range scores {
		scores[i] = rng.Float64()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		top := NewTopK[int](100)
		for item, score := range scores {
			top.Insert(item, score)
		}
		top.Results()
	}
}
