package lexis

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
)

// ErrInvalidOptions is returned (wrapped) by Options.Validate and NewIndex when
// the configuration cannot produce a working index.
var ErrInvalidOptions = errors.New("invalid options")

// ErrUnknownConjunction is returned when an unknown conjunction kind is configured.
var ErrUnknownConjunction = errors.New("unknown conjunction kind")

// ErrUnknownSearchKind is returned when an unknown search kind is configured.
var ErrUnknownSearchKind = errors.New("unknown search kind")

// ErrUnknownAutocompleteKind is returned when an unknown autocomplete kind is configured.
var ErrUnknownAutocompleteKind = errors.New("unknown autocomplete kind")

// ErrUnknownSplitterKind is returned when an unknown splitter kind is configured.
var ErrUnknownSplitterKind = errors.New("unknown splitter kind")

// ConjunctionKind decides how the keywords of a multi-keyword query combine.
type ConjunctionKind string

const (
	// And returns only records that contain every query keyword.
	// Key sets are intersected smallest-first and the search stops as soon
	// as the intersection becomes empty.
	And ConjunctionKind = "and"

	// Or returns records that contain any query keyword, ranked by the number
	// of query keywords they contain.
	Or ConjunctionKind = "or"
)

func (k ConjunctionKind) valid() bool {
	return k == And || k == Or
}

// SearchKind selects the search strategy used by Index.Search.
type SearchKind string

const (
	// KeywordSearch treats the query as exactly one keyword.
	// Queries that normalize into several keywords are rejected with ErrMultipleKeywords.
	KeywordSearch SearchKind = "keyword"

	// ConjunctiveSearch splits the query into keywords and combines their key
	// sets with the configured ConjunctionKind.
	ConjunctiveSearch SearchKind = "conjunctive"

	// LiveSearch is search-as-you-type: leading keywords are intersected and the
	// trailing keyword is treated as a prefix whose completions are unioned.
	LiveSearch SearchKind = "live"
)

func (k SearchKind) valid() bool {
	return k == KeywordSearch || k == ConjunctiveSearch || k == LiveSearch
}

// AutocompleteKind selects the autocomplete strategy used by Index.Autocomplete.
type AutocompleteKind string

const (
	// KeywordAutocomplete completes the whole query as one partial keyword.
	KeywordAutocomplete AutocompleteKind = "keyword"

	// GlobalAutocomplete completes the trailing partial keyword against the
	// entire index, ignoring what precedes it.
	GlobalAutocomplete AutocompleteKind = "global"

	// ContextualAutocomplete completes the trailing partial keyword, keeping only
	// completions found in records that also match every preceding keyword.
	ContextualAutocomplete AutocompleteKind = "contextual"
)

func (k AutocompleteKind) valid() bool {
	return k == KeywordAutocomplete || k == GlobalAutocomplete || k == ContextualAutocomplete
}

// SplitterKind selects how raw text is cut into keywords.
type SplitterKind string

const (
	// SplitSeparators cuts text on any rune of Options.Separators.
	SplitSeparators SplitterKind = "separators"

	// SplitWords cuts text on Unicode (UAX #29) word boundaries and drops
	// segments without letters or digits.
	SplitWords SplitterKind = "words"
)

func (k SplitterKind) valid() bool {
	return k == SplitSeparators || k == SplitWords
}

// DefaultSeparators is the separator set of DefaultOptions: whitespace and common punctuation.
const DefaultSeparators = " \t\n\r!\"&()*+,-./:;<=>?[\\]^`{|}~"

// Options configures an Index. The index copies the options at construction;
// later changes to the value have no effect on it.
type Options struct {
	// CaseSensitive disables lowercasing of keywords.
	CaseSensitive bool `toml:"case_sensitive" yaml:"caseSensitive"`

	// MinimumKeywordLength and MaximumKeywordLength bound, in runes, the keywords
	// that get indexed. Shorter or longer keywords are silently skipped.
	MinimumKeywordLength int `toml:"minimum_keyword_length" yaml:"minimumKeywordLength"`
	MaximumKeywordLength int `toml:"maximum_keyword_length" yaml:"maximumKeywordLength"`

	// MaximumStringLength, when positive, additionally indexes every whole
	// string whose normalized length does not exceed it as a single keyword.
	MaximumStringLength int `toml:"maximum_string_length" yaml:"maximumStringLength"`

	// MaximumSearchResults caps the number of keys returned by a search.
	MaximumSearchResults int `toml:"maximum_search_results" yaml:"maximumSearchResults"`

	// MaximumAutocompleteResults caps the number of completions returned.
	MaximumAutocompleteResults int `toml:"maximum_autocomplete_results" yaml:"maximumAutocompleteResults"`

	// MaximumKeysPerKeyword caps the keys stored under one keyword. Keys beyond
	// the cap are not added; existing keys are never evicted.
	MaximumKeysPerKeyword int `toml:"maximum_keys_per_keyword" yaml:"maximumKeysPerKeyword"`

	// FuzzyMinimumScore is the lowest similarity a fuzzy substitute may have.
	FuzzyMinimumScore float64 `toml:"fuzzy_minimum_score" yaml:"fuzzyMinimumScore"`

	// FuzzyCandidates is the number of alternatives kept when several fuzzy
	// candidates are wanted (autocomplete).
	FuzzyCandidates int `toml:"fuzzy_candidates" yaml:"fuzzyCandidates"`

	// FuzzyPrefixLength restricts fuzzy scans to keywords sharing the first N
	// runes of the query keyword. Zero scans the entire index.
	FuzzyPrefixLength int `toml:"fuzzy_prefix_length" yaml:"fuzzyPrefixLength"`

	Conjunction      ConjunctionKind  `toml:"conjunction" yaml:"conjunction"`
	SearchKind       SearchKind       `toml:"search_kind" yaml:"searchKind"`
	AutocompleteKind AutocompleteKind `toml:"autocomplete_kind" yaml:"autocompleteKind"`
	Splitter         SplitterKind     `toml:"splitter" yaml:"splitter"`

	// Separators lists the runes text is split on when Splitter is SplitSeparators.
	Separators string `toml:"separators" yaml:"separators"`

	// UnicodeNormalize applies NFKC normalization before case folding.
	UnicodeNormalize bool `toml:"unicode_normalize" yaml:"unicodeNormalize"`

	// ExcludeKeywords are never indexed (stop words). They go through the same
	// normalization as indexed text.
	ExcludeKeywords []string `toml:"exclude_keywords" yaml:"excludeKeywords"`

	// Similarity backs fuzzy substitution. Nil disables fuzzy matching.
	Similarity Similarity `toml:"-" yaml:"-"`

	// Logger receives debug output. Nil uses the package default logger.
	Logger *log.Logger `toml:"-" yaml:"-"`
}

// DefaultOptions returns the default index configuration.
//
// Fuzzy matching is off until a Similarity is plugged in.
func DefaultOptions() *Options {
	return &Options{
		CaseSensitive:              false,
		MinimumKeywordLength:       1,
		MaximumKeywordLength:       24,
		MaximumStringLength:        24,
		MaximumSearchResults:       100,
		MaximumAutocompleteResults: 5,
		MaximumKeysPerKeyword:      40_960,
		FuzzyMinimumScore:          0.3,
		FuzzyCandidates:            3,
		FuzzyPrefixLength:          0,
		Conjunction:                And,
		SearchKind:                 ConjunctiveSearch,
		AutocompleteKind:           ContextualAutocomplete,
		Splitter:                   SplitSeparators,
		Separators:                 DefaultSeparators,
		UnicodeNormalize:           true,
	}
}

// Validate reports the first problem that would keep the options from
// building an index. All errors wrap ErrInvalidOptions.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: nil options", ErrInvalidOptions)
	}
	if o.MinimumKeywordLength < 0 {
		return fmt.Errorf("%w: minimum keyword length %d is negative", ErrInvalidOptions, o.MinimumKeywordLength)
	}
	if o.MaximumKeywordLength < 1 {
		return fmt.Errorf("%w: maximum keyword length must be at least 1, got %d", ErrInvalidOptions, o.MaximumKeywordLength)
	}
	if o.MinimumKeywordLength > o.MaximumKeywordLength {
		return fmt.Errorf("%w: minimum keyword length %d exceeds maximum %d",
			ErrInvalidOptions, o.MinimumKeywordLength, o.MaximumKeywordLength)
	}
	if o.MaximumStringLength < 0 {
		return fmt.Errorf("%w: maximum string length %d is negative", ErrInvalidOptions, o.MaximumStringLength)
	}
	if o.MaximumSearchResults < 1 {
		return fmt.Errorf("%w: maximum search results must be at least 1, got %d", ErrInvalidOptions, o.MaximumSearchResults)
	}
	if o.MaximumAutocompleteResults < 1 {
		return fmt.Errorf("%w: maximum autocomplete results must be at least 1, got %d",
			ErrInvalidOptions, o.MaximumAutocompleteResults)
	}
	if o.MaximumKeysPerKeyword < 1 {
		return fmt.Errorf("%w: maximum keys per keyword must be at least 1, got %d", ErrInvalidOptions, o.MaximumKeysPerKeyword)
	}
	if math.IsNaN(o.FuzzyMinimumScore) || o.FuzzyMinimumScore < 0 || o.FuzzyMinimumScore > 1 {
		return fmt.Errorf("%w: fuzzy minimum score %v outside [0, 1]", ErrInvalidOptions, o.FuzzyMinimumScore)
	}
	if o.FuzzyCandidates < 1 {
		return fmt.Errorf("%w: fuzzy candidates must be at least 1, got %d", ErrInvalidOptions, o.FuzzyCandidates)
	}
	if o.FuzzyPrefixLength < 0 {
		return fmt.Errorf("%w: fuzzy prefix length %d is negative", ErrInvalidOptions, o.FuzzyPrefixLength)
	}
	if !o.Conjunction.valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, ErrUnknownConjunction, o.Conjunction)
	}
	if !o.SearchKind.valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, ErrUnknownSearchKind, o.SearchKind)
	}
	if !o.AutocompleteKind.valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, ErrUnknownAutocompleteKind, o.AutocompleteKind)
	}
	if !o.Splitter.valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, ErrUnknownSplitterKind, o.Splitter)
	}
	if o.Splitter == SplitSeparators && o.Separators == "" {
		return fmt.Errorf("%w: separator splitting needs at least one separator", ErrInvalidOptions)
	}
	return nil
}

// clone returns a deep copy so the index owns its configuration.
func (o *Options) clone() *Options {
	c := *o
	c.ExcludeKeywords = slices.Clone(o.ExcludeKeywords)
	return &c
}
