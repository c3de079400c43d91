package lexis

import (
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring"
)

func TestKeyTableAssign(t *testing.T) {
	table := newKeyTable[string]()

	a := table.assign("a")
	b := table.assign("b")
	if a == b {
		t.Fatalf("distinct keys share ordinal %d", a)
	}
	if again := table.assign("a"); again != a {
		t.Errorf("assign(a) = %d, want existing ordinal %d", again, a)
	}
	if table.len() != 2 {
		t.Errorf("len() = %d, want 2", table.len())
	}
	if table.key(b) != "b" {
		t.Errorf("key(%d) = %q, want b", b, table.key(b))
	}
}

func TestKeyTableCollect(t *testing.T) {
	table := newKeyTable[string]()
	a := table.assign("a")
	table.retain(a)
	table.retain(a)

	table.release(a)
	table.collect(a)
	if _, ok := table.lookup("a"); !ok {
		t.Fatal("key collected while still referenced")
	}

	table.release(a)
	table.collect(a)
	if _, ok := table.lookup("a"); ok {
		t.Fatal("unreferenced key still live")
	}
	if table.len() != 0 {
		t.Errorf("len() = %d, want 0", table.len())
	}

	// freed ordinals are reused
	if c := table.assign("c"); c != a {
		t.Errorf("assign(c) = %d, want recycled ordinal %d", c, a)
	}
}

func TestKeyTableResolve(t *testing.T) {
	table := newKeyTable[int]()
	bm := roaring.New()
	for _, key := range []int{30, 10, 20, 40} {
		bm.Add(table.assign(key))
	}

	tests := []struct {
		name  string
		limit int
		want  []int
	}{
		{"all", 0, []int{10, 20, 30, 40}},
		{"capped", 2, []int{10, 20}},
		{"limit above size", 10, []int{10, 20, 30, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.resolve(bm, tt.limit); !slices.Equal(got, tt.want) {
				t.Errorf("resolve() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := table.resolve(nil, 0); got == nil || len(got) != 0 {
		t.Errorf("resolve(nil) = %v, want empty slice", got)
	}
}
