package lexis

import (
	"cmp"
	"slices"
)

// Scored pairs an item with its score.
type Scored[T cmp.Ordered] struct {
	Item  T
	Score float64
}

// TopK keeps the capacity best-scoring items out of an unordered stream of
// observations without sorting on every insertion.
//
// HOW IT WORKS:
// Items live in a map item -> score. Alongside it TopK caches the current
// worst tracked entry (the "bottom"), or nothing when the cache is invalid.
//
//   - Below capacity every observation is stored and the cache is invalidated,
//     since the newcomer may be the new minimum.
//   - At capacity the bottom is rediscovered with one O(capacity) scan if the
//     cache is invalid. An observation that does not beat it is dropped in
//     O(1); one that does replaces it and invalidates the cache.
//
// Sorting happens once, in Results.
//
// "Beats" is a total order: higher score first, then the smaller item. Equal
// scores therefore resolve the same way whatever the arrival order, which
// makes the final result independent of observation order.
//
// TopK is not safe for concurrent use.
type TopK[T cmp.Ordered] struct {
	capacity int
	scores   map[T]float64
	bottom   *Scored[T]
}

// NewTopK creates a tracker that retains at most capacity items.
// A capacity below one tracks nothing.
func NewTopK[T cmp.Ordered](capacity int) *TopK[T] {
	size := capacity
	if size < 0 {
		size = 0
	}
	return &TopK[T]{
		capacity: capacity,
		scores:   make(map[T]float64, size),
	}
}

// Insert observes item with score. Observing an item that is already tracked
// overwrites its score.
func (t *TopK[T]) Insert(item T, score float64) {
	if t.capacity < 1 {
		return
	}
	if _, tracked := t.scores[item]; tracked {
		t.scores[item] = score
		t.bottom = nil
		return
	}
	if len(t.scores) < t.capacity {
		t.scores[item] = score
		t.bottom = nil
		return
	}
	if t.bottom == nil {
		t.findBottom()
	}
	if !beats(Scored[T]{Item: item, Score: score}, *t.bottom) {
		return
	}
	delete(t.scores, t.bottom.Item)
	t.scores[item] = score
	t.bottom = nil
}

// findBottom rescans the tracked set for its worst entry.
func (t *TopK[T]) findBottom() {
	first := true
	var worst Scored[T]
	for item, score := range t.scores {
		s := Scored[T]{Item: item, Score: score}
		if first || beats(worst, s) {
			worst = s
			first = false
		}
	}
	t.bottom = &worst
}

// beats reports whether a ranks strictly ahead of b.
func beats[T cmp.Ordered](a, b Scored[T]) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Item < b.Item
}

// Len returns the number of tracked items.
func (t *TopK[T]) Len() int {
	return len(t.scores)
}

// Results returns the tracked items, best first.
func (t *TopK[T]) Results() []Scored[T] {
	results := make([]Scored[T], 0, len(t.scores))
	for item, score := range t.scores {
		results = append(results, Scored[T]{Item: item, Score: score})
	}
	slices.SortFunc(results, func(a, b Scored[T]) int {
		switch {
		case beats(a, b):
			return -1
		case beats(b, a):
			return 1
		default:
			return 0
		}
	})
	return results
}
