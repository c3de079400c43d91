package lexis

import (
	"cmp"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/charmbracelet/log"
	"github.com/wizenheimer/lexis/internal/logger"
)

// Indexable is implemented by anything that can be put into an Index.
type Indexable interface {
	// Strings returns the text values to index for the record.
	Strings() []string
}

// Text indexes a single string.
type Text string

// Strings returns t as the only value.
func (t Text) Strings() []string {
	return []string{string(t)}
}

// Fields indexes several independent strings. Each one is tokenized on its
// own, so whole-string keywords are produced per field.
type Fields []string

// Strings returns the fields unchanged.
func (f Fields) Strings() []string {
	return f
}

// IndexableFunc adapts a function to the Indexable interface.
type IndexableFunc func() []string

// Strings calls f.
func (f IndexableFunc) Strings() []string {
	return f()
}

// Stats describes the current contents of an Index.
type Stats struct {
	// Keys is the number of live record keys.
	Keys int `msgpack:"keys" yaml:"keys"`

	// Keywords is the number of distinct indexed keywords.
	Keywords int `msgpack:"keywords" yaml:"keywords"`

	// Postings is the total number of (keyword, key) pairs.
	Postings uint64 `msgpack:"postings" yaml:"postings"`

	// SaturatedKeywords counts keywords holding MaximumKeysPerKeyword keys.
	SaturatedKeywords int `msgpack:"saturated_keywords" yaml:"saturatedKeywords"`
}

// Index is an in-memory keyword index over records identified by keys of
// type K.
//
// Every record is tokenized into keywords, and each keyword maps to the set of
// keys whose records contain it. The keyword map is ordered, which is what
// prefix completion and fuzzy scans are built on.
//
// Index performs no locking. Mutations must be serialized by the caller, and
// searches must not run concurrently with a mutation.
//
// Example:
//
//	idx, err := lexis.NewIndex[int](nil)
//	if err != nil { ... }
//	idx.Insert(1, lexis.Text("New York City"))
//	idx.Insert(2, lexis.Text("New Orleans"))
//	keys, err := idx.Search("new york") // [1]
type Index[K cmp.Ordered] struct {
	opts       *Options
	tokenizer  *tokenizer
	keywords   *keywordIndex
	keys       *keyTable[K]
	similarity Similarity
	logger     *log.Logger
}

// NewIndex creates an empty index. A nil opts uses DefaultOptions.
//
// The options are copied; changing them afterwards does not affect the index.
// Invalid options are reported with an error wrapping ErrInvalidOptions.
func NewIndex[K cmp.Ordered](opts *Options) (*Index[K], error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.clone()

	l := o.Logger
	if l == nil {
		l = logger.Default("lexis")
	}

	return &Index[K]{
		opts:       o,
		tokenizer:  newTokenizer(o),
		keywords:   newKeywordIndex(o.MaximumKeysPerKeyword),
		keys:       newKeyTable[K](),
		similarity: o.Similarity,
		logger:     l,
	}, nil
}

// recordKeywords tokenizes every string of record, deduplicated across strings.
func (idx *Index[K]) recordKeywords(record Indexable) []string {
	if record == nil {
		return nil
	}
	var keywords []string
	for _, s := range record.Strings() {
		keywords = append(keywords, idx.tokenizer.Keywords(s)...)
	}
	return dedupe(keywords)
}

// Insert indexes record under key.
//
// A keyword already holding MaximumKeysPerKeyword keys does not take the new
// key; the record stays reachable through its other keywords. Inserting more
// records under the same key adds to what the key is already indexed under.
func (idx *Index[K]) Insert(key K, record Indexable) {
	keywords := idx.recordKeywords(record)
	if len(keywords) == 0 {
		return
	}

	ord := idx.keys.assign(key)
	for _, kw := range keywords {
		added, saturated := idx.keywords.add(kw, ord)
		if added {
			idx.keys.retain(ord)
		}
		if saturated {
			idx.logger.Debug("keyword saturated, key not added", "keyword", kw, "key", key)
		}
	}
	idx.keys.collect(ord)
}

// Remove takes key out of every keyword record produces. It must be called
// with the same content the key was inserted with; keywords the content no
// longer produces keep the key.
func (idx *Index[K]) Remove(key K, record Indexable) {
	ord, ok := idx.keys.lookup(key)
	if !ok {
		return
	}
	for _, kw := range idx.recordKeywords(record) {
		if idx.keywords.remove(kw, ord) {
			idx.keys.release(ord)
		}
	}
	idx.keys.collect(ord)
}

// Replace re-indexes key from before to after.
func (idx *Index[K]) Replace(key K, before, after Indexable) {
	idx.Remove(key, before)
	idx.Insert(key, after)
}

// Clear drops every keyword and key.
func (idx *Index[K]) Clear() {
	idx.keywords.reset()
	idx.keys.reset()
}

// Len returns the number of live keys.
func (idx *Index[K]) Len() int {
	return idx.keys.len()
}

// KeywordCount returns the number of distinct keywords.
func (idx *Index[K]) KeywordCount() int {
	return idx.keywords.len()
}

// Keywords returns the indexed keywords starting with prefix, in ascending
// order. The prefix is normalized like query text. An empty prefix lists
// every keyword.
func (idx *Index[K]) Keywords(prefix string) []string {
	var out []string
	idx.keywords.scanPrefix(idx.tokenizer.normalize(prefix), func(keyword string, _ *roaring.Bitmap) bool {
		out = append(out, keyword)
		return true
	})
	return out
}

// Contains reports whether key is indexed under at least one keyword.
func (idx *Index[K]) Contains(key K) bool {
	_, ok := idx.keys.lookup(key)
	return ok
}

// Stats reports the current size of the index.
func (idx *Index[K]) Stats() Stats {
	s := Stats{
		Keys:     idx.keys.len(),
		Keywords: idx.keywords.len(),
	}
	limit := uint64(idx.opts.MaximumKeysPerKeyword)
	idx.keywords.scanPrefix("", func(_ string, keys *roaring.Bitmap) bool {
		n := keys.GetCardinality()
		s.Postings += n
		if n >= limit {
			s.SaturatedKeywords++
		}
		return true
	})
	return s
}

// String returns a short description of the index.
func (idx *Index[K]) String() string {
	return fmt.Sprintf("lexis.Index{keys: %d, keywords: %d}", idx.keys.len(), idx.keywords.len())
}
