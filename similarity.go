package lexis

// Similarity is the capability fuzzy matching is built on. The index never
// picks an algorithm itself; callers plug one in through Options.Similarity
// (see the similarity subpackage for ready-made backends).
type Similarity interface {
	// Similarity returns how alike a and b are, normalized so that 1 means
	// identical and 0 means nothing in common. Values outside [0, 1] are
	// compared as-is, never rejected.
	Similarity(a, b string) float64
}

// Comparator scores many candidates against one seed string.
type Comparator interface {
	// Compare returns the similarity of candidate to the seed. ok is false when
	// the score falls below the comparator's cutoff; implementations may stop
	// computing early in that case.
	Compare(candidate string) (score float64, ok bool)
}

// BatchSimilarity is a Similarity that can precompute work for a seed string
// and reuse it across many comparisons. Fuzzy scans use it when available.
type BatchSimilarity interface {
	Similarity

	// NewComparator seeds a comparator with s. Candidates scoring below cutoff
	// are reported with ok == false.
	NewComparator(seed string, cutoff float64) Comparator
}

// SimilarityFunc adapts an ordinary function to the Similarity interface.
type SimilarityFunc func(a, b string) float64

// Similarity calls f(a, b).
func (f SimilarityFunc) Similarity(a, b string) float64 {
	return f(a, b)
}

// pairComparator turns a single-pair Similarity into a Comparator.
type pairComparator struct {
	similarity Similarity
	seed       string
	cutoff     float64
}

func (c pairComparator) Compare(candidate string) (float64, bool) {
	score := c.similarity.Similarity(c.seed, candidate)
	return score, score >= c.cutoff
}

// newComparator prefers the backend's own batch comparator.
func newComparator(s Similarity, seed string, cutoff float64) Comparator {
	if b, ok := s.(BatchSimilarity); ok {
		return b.NewComparator(seed, cutoff)
	}
	return pairComparator{similarity: s, seed: seed, cutoff: cutoff}
}
