package lexis

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/btree"
)

// keywordIndexDegree is the B-tree degree of the keyword map.
const keywordIndexDegree = 32

// keywordEntry is one keyword and the ordinals of the keys indexed under it.
type keywordEntry struct {
	keyword string
	keys    *roaring.Bitmap
}

func keywordEntryLess(a, b *keywordEntry) bool {
	return a.keyword < b.keyword
}

// keywordIndex is the ordered keyword -> key set map.
//
// Keywords are kept in byte-wise lexicographic order, so every keyword sharing
// a prefix sits in one contiguous run. Prefix and fuzzy scans walk that run and
// stop at its end instead of visiting the whole map.
//
// Invariants:
//   - an entry exists only while its key set is non-empty
//   - a key set never holds more than maxKeys ordinals
type keywordIndex struct {
	tree    *btree.BTreeG[*keywordEntry]
	maxKeys uint64
}

func newKeywordIndex(maxKeys int) *keywordIndex {
	return &keywordIndex{
		tree:    btree.NewG(keywordIndexDegree, keywordEntryLess),
		maxKeys: uint64(maxKeys),
	}
}

// get returns the key set of keyword, or nil. The bitmap is owned by the index
// and must not be modified by the caller.
func (ix *keywordIndex) get(keyword string) *roaring.Bitmap {
	e, ok := ix.tree.Get(&keywordEntry{keyword: keyword})
	if !ok {
		return nil
	}
	return e.keys
}

// add puts ord under keyword. It reports whether ord was added and whether the
// keyword was already saturated; a saturated keyword ignores new keys.
func (ix *keywordIndex) add(keyword string, ord uint32) (added, saturated bool) {
	e, ok := ix.tree.Get(&keywordEntry{keyword: keyword})
	if !ok {
		e = &keywordEntry{keyword: keyword, keys: roaring.New()}
		ix.tree.ReplaceOrInsert(e)
	}
	if e.keys.Contains(ord) {
		return false, false
	}
	if e.keys.GetCardinality() >= ix.maxKeys {
		return false, true
	}
	e.keys.Add(ord)
	return true, false
}

// remove takes ord out of keyword's set and prunes the entry once empty.
// It reports whether ord was present.
func (ix *keywordIndex) remove(keyword string, ord uint32) bool {
	e, ok := ix.tree.Get(&keywordEntry{keyword: keyword})
	if !ok || !e.keys.CheckedRemove(ord) {
		return false
	}
	if e.keys.IsEmpty() {
		ix.tree.Delete(e)
	}
	return true
}

// scanPrefix visits, in ascending order, every keyword that starts with prefix
// until fn returns false. An empty prefix visits the whole index. The bitmaps
// passed to fn are borrowed for the duration of the call.
func (ix *keywordIndex) scanPrefix(prefix string, fn func(keyword string, keys *roaring.Bitmap) bool) {
	ix.tree.AscendGreaterOrEqual(&keywordEntry{keyword: prefix}, func(e *keywordEntry) bool {
		if !strings.HasPrefix(e.keyword, prefix) {
			return false
		}
		return fn(e.keyword, e.keys)
	})
}

func (ix *keywordIndex) len() int {
	return ix.tree.Len()
}

func (ix *keywordIndex) reset() {
	ix.tree.Clear(false)
}
