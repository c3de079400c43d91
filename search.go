package lexis

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// ErrMultipleKeywords is returned by KeywordSearch when the query normalizes
// into more than one keyword. Such queries belong to ConjunctiveSearch.
var ErrMultipleKeywords = errors.New("keyword search query has more than one keyword")

// SearchResult is one matching key.
//
// Score is the number of query keywords the key matched. For And and
// LiveSearch every result matches all of them, so scores are equal and results
// come in ascending key order; Or results are ranked by score.
type SearchResult[K any] struct {
	Key   K
	Score float64
}

// Search is a single search request against an Index. It starts from the
// index options and can be adjusted per query before Execute.
//
// Search is not safe for concurrent use.
type Search[K cmp.Ordered] struct {
	index       *Index[K]
	query       string
	kind        SearchKind
	conjunction ConjunctionKind
	k           int
	keys        []K
}

// NewSearch creates a search builder bound to the index.
//
// Example:
//
//	results, err := idx.NewSearch().
//		WithQuery("red blue").
//		WithConjunction(lexis.Or).
//		WithK(10).
//		Execute()
func (idx *Index[K]) NewSearch() *Search[K] {
	return &Search[K]{
		index:       idx,
		kind:        idx.opts.SearchKind,
		conjunction: idx.opts.Conjunction,
	}
}

// WithQuery sets the query text.
func (s *Search[K]) WithQuery(query string) *Search[K] {
	s.query = query
	return s
}

// WithKind overrides the index's SearchKind for this query.
func (s *Search[K]) WithKind(kind SearchKind) *Search[K] {
	s.kind = kind
	return s
}

// WithConjunction overrides the index's ConjunctionKind for this query.
// It only affects ConjunctiveSearch.
func (s *Search[K]) WithConjunction(conjunction ConjunctionKind) *Search[K] {
	s.conjunction = conjunction
	return s
}

// WithK sets the number of results to return.
// If k is 0, negative or above MaximumSearchResults, MaximumSearchResults is used.
//
// Parameters:
//   - k: Maximum number of results to return
//
// Returns:
//   - *Search[K]: The search builder for method chaining
func (s *Search[K]) WithK(k int) *Search[K] {
	s.k = k
	return s
}

// WithKeys restricts the search to the given keys.
// If empty, all keys are eligible (default behavior).
//
// This is useful for combining keyword search with an outside pre-filter,
// such as records the caller is permitted to see.
//
// Example:
//
//	search.WithKeys(1, 2, 3)  // Only search records 1, 2 and 3
//	search.WithKeys()         // No filtering (default)
func (s *Search[K]) WithKeys(keys ...K) *Search[K] {
	s.keys = keys
	return s
}

// Execute runs the search.
//
// An empty query, or a query nothing matches, yields an empty result and no
// error. Errors are reserved for unknown kinds and for KeywordSearch queries
// holding several keywords.
func (s *Search[K]) Execute() ([]SearchResult[K], error) {
	if !s.kind.valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownSearchKind, s.kind)
	}
	if !s.conjunction.valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownConjunction, s.conjunction)
	}

	idx := s.index
	k := sanitizeK(s.k, idx.opts.MaximumSearchResults)

	filter := newKeyFilter(idx.keys, s.keys)
	defer releaseKeyFilter(filter)
	if filter.isEmpty() {
		return []SearchResult[K]{}, nil
	}

	switch s.kind {
	case KeywordSearch:
		return s.keyword(filter, k)
	case LiveSearch:
		return s.live(filter, k), nil
	default:
		keywords := idx.tokenizer.queryKeywords(s.query)
		if s.conjunction == Or {
			return idx.searchOr(keywords, filter, k), nil
		}
		return idx.searchAnd(keywords, filter, k), nil
	}
}

func (s *Search[K]) keyword(filter *keyFilter, k int) ([]SearchResult[K], error) {
	keywords := s.index.tokenizer.queryKeywords(s.query)
	switch len(keywords) {
	case 0:
		return []SearchResult[K]{}, nil
	case 1:
		return s.index.searchAnd(keywords, filter, k), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrMultipleKeywords, s.query)
	}
}

// live intersects the typed keywords with the union of every completion of
// the keyword still being typed.
func (s *Search[K]) live(filter *keyFilter, k int) []SearchResult[K] {
	idx := s.index
	leading, partial := idx.tokenizer.partialQuery(s.query)
	if partial == "" {
		return idx.searchAnd(leading, filter, k)
	}

	completions := roaring.New()
	idx.keywords.scanPrefix(partial, func(_ string, keys *roaring.Bitmap) bool {
		completions.Or(keys)
		return true
	})
	if completions.IsEmpty() {
		for _, c := range idx.fuzzyCandidates(partial, true, idx.opts.FuzzyCandidates) {
			completions.Or(idx.keywords.get(c.Item))
		}
	}
	if completions.IsEmpty() {
		return []SearchResult[K]{}
	}

	sets := []*roaring.Bitmap{completions}
	for _, kw := range leading {
		set := idx.resolveKeyword(kw)
		if set == nil {
			return []SearchResult[K]{}
		}
		sets = append(sets, set)
	}
	return idx.scoreEqually(intersect(sets, filter), len(leading)+1, k)
}

// Search runs the index's default search for query and returns the matching
// keys.
func (idx *Index[K]) Search(query string) ([]K, error) {
	results, err := idx.NewSearch().WithQuery(query).Execute()
	if err != nil {
		return nil, err
	}
	keys := make([]K, len(results))
	for i, r := range results {
		keys[i] = r.Key
	}
	return keys, nil
}

// resolveKeyword returns the key set of keyword, substituting the most similar
// indexed keyword when there is no exact entry. The bitmap is borrowed.
func (idx *Index[K]) resolveKeyword(keyword string) *roaring.Bitmap {
	if keys := idx.keywords.get(keyword); keys != nil {
		return keys
	}
	if sub, ok := idx.fuzzyBest(keyword, false); ok {
		return idx.keywords.get(sub)
	}
	return nil
}

// searchAnd returns the keys matching every keyword.
func (idx *Index[K]) searchAnd(keywords []string, filter *keyFilter, k int) []SearchResult[K] {
	if len(keywords) == 0 {
		return []SearchResult[K]{}
	}
	sets := make([]*roaring.Bitmap, 0, len(keywords))
	for _, kw := range keywords {
		set := idx.resolveKeyword(kw)
		if set == nil {
			return []SearchResult[K]{}
		}
		sets = append(sets, set)
	}
	return idx.scoreEqually(intersect(sets, filter), len(keywords), k)
}

// intersect ANDs the sets smallest first, stopping once the running
// intersection is empty. The inputs are not modified.
func intersect(sets []*roaring.Bitmap, filter *keyFilter) *roaring.Bitmap {
	slices.SortFunc(sets, func(a, b *roaring.Bitmap) int {
		return cmp.Compare(a.GetCardinality(), b.GetCardinality())
	})
	result := filter.apply(sets[0])
	for _, set := range sets[1:] {
		if result.IsEmpty() {
			break
		}
		result.And(set)
	}
	return result
}

func (idx *Index[K]) scoreEqually(set *roaring.Bitmap, score, k int) []SearchResult[K] {
	keys := idx.keys.resolve(set, k)
	results := make([]SearchResult[K], len(keys))
	for i, key := range keys {
		results[i] = SearchResult[K]{Key: key, Score: float64(score)}
	}
	return results
}

// searchOr ranks keys by how many keywords they match.
func (idx *Index[K]) searchOr(keywords []string, filter *keyFilter, k int) []SearchResult[K] {
	counts := make(map[uint32]int)
	seen := make(map[*roaring.Bitmap]struct{}, len(keywords))
	for _, kw := range keywords {
		set := idx.resolveKeyword(kw)
		if set == nil {
			continue
		}
		// two misspellings can land on the same substitute
		if _, dup := seen[set]; dup {
			continue
		}
		seen[set] = struct{}{}
		it := set.Iterator()
		for it.HasNext() {
			ord := it.Next()
			if filter.isEligible(ord) {
				counts[ord]++
			}
		}
	}

	top := NewTopK[K](k)
	for ord, count := range counts {
		top.Insert(idx.keys.key(ord), float64(count))
	}

	ranked := top.Results()
	results := make([]SearchResult[K], len(ranked))
	for i, r := range ranked {
		results[i] = SearchResult[K]{Key: r.Item, Score: r.Score}
	}
	return results
}
