package similarity

import "github.com/wizenheimer/lexis"

// bigram scores strings by the Sørensen-Dice coefficient of their rune bigram
// multisets: 2 * |common| / (|A| + |B|).
//
// Strings shorter than two runes have no bigrams; they score 1 against an
// identical string and 0 otherwise.
type bigram struct{}

var _ lexis.BatchSimilarity = bigram{}

// Similarity scores one pair.
func (bigram) Similarity(a, b string) float64 {
	score, _ := newBigramComparator(a, 0).score(b)
	return score
}

// NewComparator precomputes the bigrams of seed.
func (bigram) NewComparator(seed string, cutoff float64) lexis.Comparator {
	return newBigramComparator(seed, cutoff)
}

// Kind returns Bigram.
func (bigram) Kind() Kind {
	return Bigram
}

type bigramComparator struct {
	seed    string
	grams   map[[2]rune]int
	total   int
	cutoff  float64
	scratch map[[2]rune]int
}

func newBigramComparator(seed string, cutoff float64) *bigramComparator {
	grams, total := bigrams(seed)
	return &bigramComparator{
		seed:    seed,
		grams:   grams,
		total:   total,
		cutoff:  cutoff,
		scratch: make(map[[2]rune]int, len(grams)),
	}
}

// Compare implements lexis.Comparator.
func (c *bigramComparator) Compare(candidate string) (float64, bool) {
	score, complete := c.score(candidate)
	return score, complete && score >= c.cutoff
}

// score computes the coefficient. complete is false when the candidate was
// abandoned because even a perfect overlap could not reach the cutoff.
func (c *bigramComparator) score(candidate string) (score float64, complete bool) {
	if c.total == 0 {
		if candidate == c.seed {
			return 1, true
		}
		return 0, true
	}

	runes := []rune(candidate)
	n := len(runes) - 1
	if n < 1 {
		return 0, true
	}

	// upper bound: every candidate bigram matches
	if best := 2 * float64(min(n, c.total)) / float64(n+c.total); best < c.cutoff {
		return best, false
	}

	clear(c.scratch)
	common := 0
	for i := 0; i < n; i++ {
		g := [2]rune{runes[i], runes[i+1]}
		if c.scratch[g] < c.grams[g] {
			c.scratch[g]++
			common++
		}
	}
	return 2 * float64(common) / float64(n+c.total), true
}

// bigrams returns the multiset of adjacent rune pairs in s and its size.
func bigrams(s string) (map[[2]rune]int, int) {
	runes := []rune(s)
	if len(runes) < 2 {
		return map[[2]rune]int{}, 0
	}
	grams := make(map[[2]rune]int, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		grams[[2]rune{runes[i], runes[i+1]}]++
	}
	return grams, len(runes) - 1
}
