package lexis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/unicode/norm"
)

// tokenizer turns raw text into keywords. It is immutable once built and is
// shared by indexing and querying so both sides normalize identically.
type tokenizer struct {
	caseSensitive    bool
	unicodeNormalize bool
	splitter         SplitterKind
	separators       string
	minLength        int
	maxLength        int
	maxStringLength  int
	exclude          map[string]struct{}
}

func newTokenizer(o *Options) *tokenizer {
	t := &tokenizer{
		caseSensitive:    o.CaseSensitive,
		unicodeNormalize: o.UnicodeNormalize,
		splitter:         o.Splitter,
		separators:       o.Separators,
		minLength:        o.MinimumKeywordLength,
		maxLength:        o.MaximumKeywordLength,
		maxStringLength:  o.MaximumStringLength,
		exclude:          make(map[string]struct{}, len(o.ExcludeKeywords)),
	}
	for _, w := range o.ExcludeKeywords {
		t.exclude[t.normalize(w)] = struct{}{}
	}
	return t
}

// normalize applies NFKC (when enabled) and lowercasing (unless case sensitive).
func (t *tokenizer) normalize(s string) string {
	if t.unicodeNormalize {
		s = norm.NFKC.String(s)
	}
	if !t.caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

func (t *tokenizer) isSeparator(r rune) bool {
	if t.splitter == SplitWords {
		return !isWordRune(r)
	}
	return strings.ContainsRune(t.separators, r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// split cuts already normalized text into segments. Empty segments never appear.
func (t *tokenizer) split(s string) []string {
	if t.splitter == SplitWords {
		var segments []string
		toks := words.FromString(s)
		for toks.Next() {
			v := toks.Value()
			if strings.IndexFunc(v, isWordRune) >= 0 {
				segments = append(segments, v)
			}
		}
		return segments
	}
	return strings.FieldsFunc(s, t.isSeparator)
}

// indexable applies the length bounds and the exclusion list.
func (t *tokenizer) indexable(keyword string) bool {
	n := utf8.RuneCountInString(keyword)
	if n == 0 || n < t.minLength || n > t.maxLength {
		return false
	}
	_, excluded := t.exclude[keyword]
	return !excluded
}

// phrase collapses whitespace runs and trims separators off the ends of
// normalized text. It is the form whole strings are indexed under.
func (t *tokenizer) phrase(normalized string) string {
	return strings.TrimFunc(strings.Join(strings.Fields(normalized), " "), t.isSeparator)
}

// Keywords returns the keywords text is indexed under, deduplicated, in order
// of first appearance. When whole-string indexing is enabled and the phrase is
// short enough, it is appended as one more keyword.
func (t *tokenizer) Keywords(text string) []string {
	normalized := t.normalize(text)
	segments := t.split(normalized)

	keywords := make([]string, 0, len(segments)+1)
	seen := make(map[string]struct{}, len(segments)+1)
	for _, s := range segments {
		if _, dup := seen[s]; dup || !t.indexable(s) {
			continue
		}
		seen[s] = struct{}{}
		keywords = append(keywords, s)
	}

	if t.maxStringLength > 0 {
		whole := t.phrase(normalized)
		n := utf8.RuneCountInString(whole)
		if n > 0 && n <= t.maxStringLength {
			_, dup := seen[whole]
			_, excluded := t.exclude[whole]
			if !dup && !excluded {
				keywords = append(keywords, whole)
			}
		}
	}
	return keywords
}

// queryKeywords normalizes and splits a query like indexed text, but keeps
// keywords the length bounds or exclusions would drop: they are still looked up.
func (t *tokenizer) queryKeywords(query string) []string {
	segments := t.split(t.normalize(query))
	keywords := segments[:0]
	seen := make(map[string]struct{}, len(segments))
	for _, s := range segments {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		keywords = append(keywords, s)
	}
	return keywords
}

// partialQuery splits a query into fully typed leading keywords and the
// trailing keyword still being typed. A query ending in a separator has no
// partial keyword.
func (t *tokenizer) partialQuery(query string) (leading []string, partial string) {
	normalized := t.normalize(query)
	segments := t.split(normalized)
	if len(segments) == 0 {
		return nil, ""
	}
	last, _ := utf8.DecodeLastRuneInString(normalized)
	if t.isSeparator(last) || unicode.IsSpace(last) {
		return dedupe(segments), ""
	}
	return dedupe(segments[:len(segments)-1]), segments[len(segments)-1]
}

func dedupe(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
