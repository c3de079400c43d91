package lexis

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Completion is one suggested keyword.
type Completion[K any] struct {
	// Keyword is the indexed keyword completing the partial input.
	Keyword string

	// Text is the query as it reads once Keyword is accepted: the typed
	// leading keywords followed by Keyword, space separated.
	Text string

	// Keys are the records containing Keyword, in ascending order. For
	// ContextualAutocomplete only records also matching the leading
	// keywords are listed.
	Keys []K
}

// Autocomplete is a single completion request against an Index.
//
// Autocomplete is not safe for concurrent use.
type Autocomplete[K cmp.Ordered] struct {
	index *Index[K]
	query string
	kind  AutocompleteKind
	k     int
}

// NewAutocomplete creates an autocomplete builder bound to the index.
//
// Example:
//
//	completions, err := idx.NewAutocomplete().
//		WithQuery("new y").
//		WithKind(lexis.ContextualAutocomplete).
//		Execute()
func (idx *Index[K]) NewAutocomplete() *Autocomplete[K] {
	return &Autocomplete[K]{
		index: idx,
		kind:  idx.opts.AutocompleteKind,
	}
}

// WithQuery sets the text typed so far.
func (a *Autocomplete[K]) WithQuery(query string) *Autocomplete[K] {
	a.query = query
	return a
}

// WithKind overrides the index's AutocompleteKind for this query.
func (a *Autocomplete[K]) WithKind(kind AutocompleteKind) *Autocomplete[K] {
	a.kind = kind
	return a
}

// WithK sets the number of completions to return.
// If k is 0, negative or above MaximumAutocompleteResults,
// MaximumAutocompleteResults is used.
func (a *Autocomplete[K]) WithK(k int) *Autocomplete[K] {
	a.k = k
	return a
}

// Execute computes the completions.
//
// Prefix matches come back in ascending keyword order. When nothing matches
// the prefix and a Similarity is configured, the closest keywords are offered
// instead, best first. Nothing to complete is an empty result, not an error.
func (a *Autocomplete[K]) Execute() ([]Completion[K], error) {
	idx := a.index
	c := completer[K]{
		index: idx,
		limit: sanitizeK(a.k, idx.opts.MaximumAutocompleteResults),
	}

	switch a.kind {
	case KeywordAutocomplete:
		c.partial = idx.tokenizer.phrase(idx.tokenizer.normalize(a.query))
	case GlobalAutocomplete:
		c.leading, c.partial = idx.tokenizer.partialQuery(a.query)
	case ContextualAutocomplete:
		c.leading, c.partial = idx.tokenizer.partialQuery(a.query)
		if len(c.leading) > 0 {
			context := idx.context(c.leading)
			if context == nil {
				return []Completion[K]{}, nil
			}
			c.context = contextFilter(context)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAutocompleteKind, a.kind)
	}

	return c.complete(), nil
}

// Autocomplete runs the index's default autocomplete for query.
func (idx *Index[K]) Autocomplete(query string) ([]Completion[K], error) {
	return idx.NewAutocomplete().WithQuery(query).Execute()
}

// context intersects the key sets of the leading keywords, with fuzzy
// fallback per keyword. It returns nil when no record matches them all.
func (idx *Index[K]) context(leading []string) *roaring.Bitmap {
	sets := make([]*roaring.Bitmap, 0, len(leading))
	for _, kw := range leading {
		set := idx.resolveKeyword(kw)
		if set == nil {
			return nil
		}
		sets = append(sets, set)
	}
	context := intersect(sets, nil)
	if context.IsEmpty() {
		return nil
	}
	return context
}

// completer collects completions for one request. The three modes differ
// only in how leading, partial and context are set up.
type completer[K cmp.Ordered] struct {
	index   *Index[K]
	leading []string
	partial string
	context *keyFilter
	limit   int
	out     []Completion[K]
}

func (c *completer[K]) complete() []Completion[K] {
	c.out = []Completion[K]{}
	if c.partial == "" {
		return c.out
	}

	c.index.keywords.scanPrefix(c.partial, func(keyword string, keys *roaring.Bitmap) bool {
		return c.offer(keyword, keys)
	})
	if len(c.out) > 0 {
		return c.out
	}

	idx := c.index
	for _, candidate := range idx.fuzzyCandidates(c.partial, true, idx.opts.FuzzyCandidates) {
		if !c.offer(candidate.Item, idx.keywords.get(candidate.Item)) {
			break
		}
	}
	return c.out
}

// offer adds keyword unless none of its keys fit the context. It reports
// whether more completions are wanted.
func (c *completer[K]) offer(keyword string, keys *roaring.Bitmap) bool {
	if !c.context.intersects(keys) {
		return true
	}
	if c.context != nil {
		keys = c.context.apply(keys)
	}

	text := keyword
	if len(c.leading) > 0 {
		text = strings.Join(c.leading, " ") + " " + keyword
	}
	c.out = append(c.out, Completion[K]{
		Keyword: keyword,
		Text:    text,
		Keys:    c.index.keys.resolve(keys, c.index.opts.MaximumSearchResults),
	})
	return len(c.out) < c.limit
}
