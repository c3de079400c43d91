package lexis

import (
	"math"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring"
)

// fuzzyScope returns the prefix a fuzzy scan for keyword is confined to:
// its first FuzzyPrefixLength runes, or nothing when the option is zero.
func (idx *Index[K]) fuzzyScope(keyword string) string {
	if idx.opts.FuzzyPrefixLength <= 0 {
		return ""
	}
	return leadingRunes(keyword, idx.opts.FuzzyPrefixLength)
}

// fuzzyScan scores every in-scope keyword against keyword and hands the ones
// clearing FuzzyMinimumScore to visit, in ascending keyword order.
//
// With partial set the keyword is still being typed, so each candidate is
// compared through its leading runes only: "yor" against "yorkshire" compares
// "yor" with "yor".
func (idx *Index[K]) fuzzyScan(keyword string, partial bool, visit func(candidate string, score float64)) {
	if idx.similarity == nil || keyword == "" {
		return
	}
	cutoff := idx.opts.FuzzyMinimumScore
	comparator := newComparator(idx.similarity, keyword, cutoff)
	runes := utf8.RuneCountInString(keyword)

	idx.keywords.scanPrefix(idx.fuzzyScope(keyword), func(candidate string, _ *roaring.Bitmap) bool {
		compared := candidate
		if partial {
			compared = leadingRunes(candidate, runes)
		}
		score, ok := comparator.Compare(compared)
		if ok && score >= cutoff {
			visit(candidate, score)
		}
		return true
	})
}

// fuzzyBest returns the indexed keyword most similar to keyword. Ties go to
// the keyword that sorts first. ok is false when nothing clears the threshold.
func (idx *Index[K]) fuzzyBest(keyword string, partial bool) (best string, ok bool) {
	bestScore := math.Inf(-1)
	idx.fuzzyScan(keyword, partial, func(candidate string, score float64) {
		if !ok || score > bestScore {
			best, bestScore, ok = candidate, score, true
		}
	})
	if ok {
		idx.logger.Debug("fuzzy substitute", "keyword", keyword, "substitute", best, "score", bestScore)
	}
	return best, ok
}

// fuzzyCandidates returns up to n alternatives for keyword, best first.
func (idx *Index[K]) fuzzyCandidates(keyword string, partial bool, n int) []Scored[string] {
	top := NewTopK[string](n)
	idx.fuzzyScan(keyword, partial, top.Insert)
	results := top.Results()
	if len(results) > 0 {
		idx.logger.Debug("fuzzy candidates", "keyword", keyword, "count", len(results), "best", results[0].Item)
	}
	return results
}

// leadingRunes returns the first n runes of s.
func leadingRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
