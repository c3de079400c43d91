// Package similarity provides string similarity backends for lexis fuzzy
// matching.
//
// Most kinds delegate to github.com/hbollon/go-edlib and score one pair at a
// time. Bigram is implemented here and also offers a seeded comparator, which
// lexis uses to avoid re-tokenizing the query keyword for every candidate.
package similarity

import (
	"errors"

	"github.com/hbollon/go-edlib"
	"github.com/wizenheimer/lexis"
)

// ErrUnknownKind is returned when an unknown similarity kind is provided to New.
var ErrUnknownKind = errors.New("unknown similarity kind")

// Kind names a similarity algorithm.
// All of them report scores normalized to [0, 1], 1 meaning identical.
type Kind string

const (
	// Levenshtein counts insertions, deletions and substitutions.
	Levenshtein Kind = "levenshtein"

	// DamerauLevenshtein also counts transpositions of adjacent characters.
	DamerauLevenshtein Kind = "damerau_levenshtein"

	// OSADamerauLevenshtein is Damerau-Levenshtein where no substring is
	// edited more than once (optimal string alignment).
	OSADamerauLevenshtein Kind = "osa_damerau_levenshtein"

	// LCS scores by the longest common subsequence.
	LCS Kind = "lcs"

	// Hamming counts differing positions. Strings of different length score 0.
	Hamming Kind = "hamming"

	// Jaro weighs matching characters and transpositions.
	Jaro Kind = "jaro"

	// JaroWinkler is Jaro with a bonus for a shared prefix; a good fit for
	// typos in short keywords.
	JaroWinkler Kind = "jaro_winkler"

	// Cosine compares bigram profiles by cosine similarity.
	Cosine Kind = "cosine"

	// Jaccard compares bigram sets by intersection over union.
	Jaccard Kind = "jaccard"

	// SorensenDice compares bigram sets by twice the intersection over the
	// total size.
	SorensenDice Kind = "sorensen_dice"

	// Qgram compares q-gram profiles.
	Qgram Kind = "qgram"

	// Bigram is a Sørensen-Dice coefficient over rune bigram multisets that
	// precomputes the seed's bigrams for batch comparisons.
	Bigram Kind = "bigram"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{
		Levenshtein, DamerauLevenshtein, OSADamerauLevenshtein, LCS, Hamming,
		Jaro, JaroWinkler, Cosine, Jaccard, SorensenDice, Qgram, Bigram,
	}
}

// Singleton instances of the similarity strategies.
// These are stateless and can be safely reused across goroutines.
var (
	levenshteinImpl           = metric{kind: Levenshtein, algorithm: edlib.Levenshtein}
	damerauLevenshteinImpl    = metric{kind: DamerauLevenshtein, algorithm: edlib.DamerauLevenshtein}
	osaDamerauLevenshteinImpl = metric{kind: OSADamerauLevenshtein, algorithm: edlib.OSADamerauLevenshtein}
	lcsImpl                   = metric{kind: LCS, algorithm: edlib.Lcs}
	hammingImpl               = metric{kind: Hamming, algorithm: edlib.Hamming}
	jaroImpl                  = metric{kind: Jaro, algorithm: edlib.Jaro}
	jaroWinklerImpl           = metric{kind: JaroWinkler, algorithm: edlib.JaroWinkler}
	cosineImpl                = metric{kind: Cosine, algorithm: edlib.Cosine}
	jaccardImpl               = metric{kind: Jaccard, algorithm: edlib.Jaccard}
	sorensenDiceImpl          = metric{kind: SorensenDice, algorithm: edlib.SorensenDice}
	qgramImpl                 = metric{kind: Qgram, algorithm: edlib.Qgram}
	bigramImpl                = bigram{}
)

// New returns a singleton lexis.Similarity for the given kind.
// The returned instances are stateless and safe for concurrent use across goroutines.
// Returns ErrUnknownKind if the kind is not recognized.
//
// Example:
//
//	sim, err := similarity.New(similarity.JaroWinkler)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts := lexis.DefaultOptions()
//	opts.Similarity = sim
func New(kind Kind) (lexis.Similarity, error) {
	switch kind {
	case Levenshtein:
		return levenshteinImpl, nil
	case DamerauLevenshtein:
		return damerauLevenshteinImpl, nil
	case OSADamerauLevenshtein:
		return osaDamerauLevenshteinImpl, nil
	case LCS:
		return lcsImpl, nil
	case Hamming:
		return hammingImpl, nil
	case Jaro:
		return jaroImpl, nil
	case JaroWinkler:
		return jaroWinklerImpl, nil
	case Cosine:
		return cosineImpl, nil
	case Jaccard:
		return jaccardImpl, nil
	case SorensenDice:
		return sorensenDiceImpl, nil
	case Qgram:
		return qgramImpl, nil
	case Bigram:
		return bigramImpl, nil
	default:
		return nil, ErrUnknownKind
	}
}

// metric adapts one go-edlib algorithm to lexis.Similarity.
type metric struct {
	kind      Kind
	algorithm edlib.Algorithm
}

var _ lexis.Similarity = metric{}

// Similarity returns the normalized edlib score. Pairs the algorithm is
// undefined for (Hamming on unequal lengths) score 0.
func (m metric) Similarity(a, b string) float64 {
	score, err := edlib.StringsSimilarity(a, b, m.algorithm)
	if err != nil {
		return 0
	}
	return float64(score)
}

// Kind returns the algorithm name.
func (m metric) Kind() Kind {
	return m.kind
}
