package lexis

import (
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/wizenheimer/lexis/internal/logger"
)

// newTestIndex builds an index over int keys with a silent logger.
// configure may adjust the default options before construction.
func newTestIndex(t *testing.T, configure func(o *Options)) *Index[int] {
	t.Helper()
	opts := DefaultOptions()
	opts.Logger = logger.Discard()
	if configure != nil {
		configure(opts)
	}
	idx, err := NewIndex[int](opts)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return idx
}

// positional scores two strings by the share of rune positions they agree on,
// relative to the longer one: "dawm" vs "dawn" is 0.75.
var positional = SimilarityFunc(func(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	same := 0
	for i := 0; i < min(len(ra), len(rb)); i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
})

// snapshot captures every keyword with its keys.
func snapshot(idx *Index[int]) map[string][]int {
	out := make(map[string][]int)
	idx.keywords.scanPrefix("", func(keyword string, keys *roaring.Bitmap) bool {
		out[keyword] = idx.keys.resolve(keys, 0)
		return true
	})
	return out
}

func keysOf[K any](results []SearchResult[K]) []K {
	keys := make([]K, len(results))
	for i, r := range results {
		keys[i] = r.Key
	}
	return keys
}

func keywordsOf[K any](completions []Completion[K]) []string {
	out := make([]string, len(completions))
	for i, c := range completions {
		out[i] = c.Keyword
	}
	return out
}

func equalStrings(a, b []string) bool {
	return slices.Equal(a, b)
}
