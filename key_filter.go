package lexis

import (
	"cmp"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// keyFilter restricts a query to a set of eligible key ordinals.
// A nil filter means every key is eligible.
type keyFilter struct {
	bitmap *roaring.Bitmap
	pooled bool
}

// keyFilterPool is a sync.Pool for keyFilter to reduce allocations
var keyFilterPool = sync.Pool{
	New: func() interface{} {
		return &keyFilter{
			bitmap: roaring.New(),
			pooled: true,
		}
	},
}

// newKeyFilter builds a filter from caller keys. No keys means no filtering.
// Keys the index does not know are ignored, so a filter built only from
// unknown keys is empty and rejects everything.
// The filter should be handed back with releaseKeyFilter when done.
func newKeyFilter[K cmp.Ordered](table *keyTable[K], keys []K) *keyFilter {
	if len(keys) == 0 {
		return nil
	}

	filter := keyFilterPool.Get().(*keyFilter)
	filter.bitmap.Clear()

	for _, key := range keys {
		if ord, ok := table.lookup(key); ok {
			filter.bitmap.Add(ord)
		}
	}
	return filter
}

// contextFilter wraps an already computed ordinal set. The filter takes
// ownership of bm.
func contextFilter(bm *roaring.Bitmap) *keyFilter {
	if bm == nil {
		return nil
	}
	return &keyFilter{bitmap: bm}
}

// releaseKeyFilter returns a pooled filter. Do not use the filter afterwards.
func releaseKeyFilter(f *keyFilter) {
	if f != nil && f.pooled {
		keyFilterPool.Put(f)
	}
}

// isEligible reports whether ord passes the filter.
func (f *keyFilter) isEligible(ord uint32) bool {
	if f == nil {
		return true
	}
	return f.bitmap.Contains(ord)
}

// isEmpty reports whether the filter rejects everything.
func (f *keyFilter) isEmpty() bool {
	if f == nil {
		return false
	}
	return f.bitmap.IsEmpty()
}

// intersects reports whether bm holds at least one eligible ordinal.
func (f *keyFilter) intersects(bm *roaring.Bitmap) bool {
	if f == nil {
		return !bm.IsEmpty()
	}
	return f.bitmap.Intersects(bm)
}

// apply returns the eligible part of bm as a new bitmap; bm is not modified.
func (f *keyFilter) apply(bm *roaring.Bitmap) *roaring.Bitmap {
	if f == nil {
		return bm.Clone()
	}
	return roaring.And(bm, f.bitmap)
}
