package lexis

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// keyTable maps caller keys to dense uint32 ordinals so key sets can live in
// roaring bitmaps. Each ordinal counts the keywords that reference it and is
// recycled once that count drops to zero.
type keyTable[K cmp.Ordered] struct {
	ordinals map[K]uint32
	keys     []K
	refs     []int
	free     []uint32
}

func newKeyTable[K cmp.Ordered]() *keyTable[K] {
	return &keyTable[K]{
		ordinals: make(map[K]uint32),
	}
}

// lookup returns the ordinal of a live key.
func (t *keyTable[K]) lookup(key K) (uint32, bool) {
	ord, ok := t.ordinals[key]
	return ord, ok
}

// assign returns the ordinal of key, allocating one with zero references if
// the key is not live yet.
func (t *keyTable[K]) assign(key K) uint32 {
	if ord, ok := t.ordinals[key]; ok {
		return ord
	}
	var ord uint32
	if n := len(t.free); n > 0 {
		ord = t.free[n-1]
		t.free = t.free[:n-1]
		t.keys[ord] = key
		t.refs[ord] = 0
	} else {
		ord = uint32(len(t.keys))
		t.keys = append(t.keys, key)
		t.refs = append(t.refs, 0)
	}
	t.ordinals[key] = ord
	return ord
}

func (t *keyTable[K]) retain(ord uint32) {
	t.refs[ord]++
}

func (t *keyTable[K]) release(ord uint32) {
	t.refs[ord]--
}

// collect frees the ordinal when nothing references it any more.
func (t *keyTable[K]) collect(ord uint32) {
	if t.refs[ord] > 0 {
		return
	}
	var zero K
	delete(t.ordinals, t.keys[ord])
	t.keys[ord] = zero
	t.free = append(t.free, ord)
}

func (t *keyTable[K]) key(ord uint32) K {
	return t.keys[ord]
}

// len returns the number of live keys.
func (t *keyTable[K]) len() int {
	return len(t.ordinals)
}

func (t *keyTable[K]) reset() {
	t.ordinals = make(map[K]uint32)
	t.keys = nil
	t.refs = nil
	t.free = nil
}

// resolve materializes a bitmap into keys sorted ascending, keeping at most
// limit of them. A limit below one keeps everything.
func (t *keyTable[K]) resolve(bm *roaring.Bitmap, limit int) []K {
	if bm == nil || bm.IsEmpty() {
		return []K{}
	}
	keys := make([]K, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		keys = append(keys, t.keys[it.Next()])
	}
	slices.Sort(keys)
	return limitResults(keys, limit)
}
