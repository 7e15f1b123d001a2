package render

import (
	"testing"

	"github.com/mbrt/isosurf/internal/shape"
)

// fakeStorage/fakeTapeStorage let pool-conservation tests count round trips
// without depending on a real evaluator.
type fakeStorage struct{ id int }
type fakeTapeStorage struct{ id int }

type fakeTrace struct{ n int }

func (t *fakeTrace) Equal(other shape.Trace) bool {
	o, ok := other.(*fakeTrace)
	return ok && o.n == t.n
}
func (t *fakeTrace) Clone() shape.Trace    { c := *t; return &c }
func (t *fakeTrace) CopyFrom(o shape.Trace) { t.n = o.(*fakeTrace).n }

type fakeITape struct{ storage shape.TapeStorage }
type fakeFTape struct{ storage shape.TapeStorage }
type fakeGTape struct{ storage shape.TapeStorage }

func (t *fakeITape) Eval(shape.AABB3) (shape.Interval, shape.Trace) { return shape.Interval{}, nil }
func (t *fakeITape) Recycle() shape.TapeStorage                    { return t.storage }
func (t *fakeFTape) Eval(xs, ys, zs []float64) []float64           { return make([]float64, len(xs)) }
func (t *fakeFTape) Recycle() shape.TapeStorage                    { return t.storage }
func (t *fakeGTape) Eval(xs, ys, zs []float64) []shape.Gradient3 {
	return make([]shape.Gradient3, len(xs))
}
func (t *fakeGTape) Recycle() shape.TapeStorage { return t.storage }

// fakeShape is a minimal Shape whose "simplification" just decrements size
// by one each time, down to a floor, so tests can control whether
// simplification shrinks the shape.
type fakeShape struct {
	size          int
	simplifyCalls *int
	storage       shape.Storage
	floor         int
}

func newFakeShape(size int) *fakeShape {
	return &fakeShape{size: size, simplifyCalls: new(int), storage: &fakeStorage{id: size}}
}

func (s *fakeShape) Size() int { return s.size }
func (s *fakeShape) IntervalTape(storage shape.TapeStorage) shape.IntervalTape {
	return &fakeITape{storage: storage}
}
func (s *fakeShape) FloatTape(storage shape.TapeStorage) shape.FloatTape {
	return &fakeFTape{storage: storage}
}
func (s *fakeShape) GradTape(storage shape.TapeStorage) shape.GradTape {
	return &fakeGTape{storage: storage}
}
func (s *fakeShape) Simplify(trace shape.Trace, storage shape.Storage, _ shape.Workspace) shape.Shape {
	*s.simplifyCalls++
	newSize := s.size - 1
	if newSize < s.floor {
		newSize = s.floor
	}
	return &fakeShape{size: newSize, simplifyCalls: s.simplifyCalls, storage: storage, floor: s.floor}
}
func (s *fakeShape) Recycle() shape.Storage { return s.storage }

func TestHandle_SimplifyCacheReuse(t *testing.T) {
	var pools Pools
	h := New(newFakeShape(10))
	trace := &fakeTrace{n: 1}

	child1 := h.Simplify(trace, nil, &pools)
	if child1.Shape.Size() >= 10 {
		t.Fatalf("expected child to shrink, got size %d", child1.Shape.Size())
	}
	calls := *h.Shape.(*fakeShape).simplifyCalls

	child2 := h.Simplify(trace, nil, &pools)
	if child2 != child1 {
		t.Fatal("expected same child identity for repeated identical trace")
	}
	if got := *h.Shape.(*fakeShape).simplifyCalls; got != calls {
		t.Fatalf("Simplify was called again on cache hit: %d -> %d", calls, got)
	}
}

func TestHandle_SimplifyRejectsNonShrinking(t *testing.T) {
	var pools Pools
	pools.PushShapeStorage(&fakeStorage{id: 100})
	fs := newFakeShape(5)
	fs.floor = 5 // simplification never shrinks below 5, i.e. never shrinks at all
	h := New(fs)

	got := h.Simplify(&fakeTrace{n: 1}, nil, &pools)
	if got != h {
		t.Fatal("a non-shrinking simplification must be rejected (return self)")
	}
	if pools.ShapeStorageLen() != 1 {
		t.Fatalf("rejected candidate's storage should be recycled, pool len = %d", pools.ShapeStorageLen())
	}
}

func TestHandle_SimplifyMonotonicity(t *testing.T) {
	var pools Pools
	h := New(newFakeShape(10))
	child := h.Simplify(&fakeTrace{n: 1}, nil, &pools)
	if child.Shape.Size() >= h.Shape.Size() {
		t.Fatalf("child size %d must be < parent size %d", child.Shape.Size(), h.Shape.Size())
	}
}

func TestHandle_SimplifyReplacesStaleChild(t *testing.T) {
	var pools Pools
	h := New(newFakeShape(10))

	first := h.Simplify(&fakeTrace{n: 1}, nil, &pools)
	second := h.Simplify(&fakeTrace{n: 2}, nil, &pools)

	if second == first {
		t.Fatal("a different trace must not reuse the stale child")
	}
}

func TestHandle_RecycleConservesStorage(t *testing.T) {
	var pools Pools
	// Pre-seed the pools so every Pop returns a distinct, trackable, non-nil
	// value; a conserving Recycle must return exactly as many as it took.
	pools.PushShapeStorage(&fakeStorage{id: 100})
	pools.PushTapeStorage(&fakeTapeStorage{id: 1})
	pools.PushTapeStorage(&fakeTapeStorage{id: 2})
	pools.PushTapeStorage(&fakeTapeStorage{id: 3})

	h := New(newFakeShape(10))

	_ = h.ITape(&pools)
	_ = h.FTape(&pools)
	_ = h.GTape(&pools)
	h.Simplify(&fakeTrace{n: 1}, nil, &pools)

	if got, want := pools.ShapeStorageLen(), 0; got != want {
		t.Fatalf("precondition: shape pool should be drained by Simplify, got %d", got)
	}
	if got, want := pools.TapeStorageLen(), 0; got != want {
		t.Fatalf("precondition: tape pool should be drained by the three *Tape() calls, got %d", got)
	}

	h.Recycle(&pools)

	// One shape storage each for parent and child, plus three tape storages
	// for the parent's tapes (the child never built tapes).
	if got, want := pools.ShapeStorageLen(), 2; got != want {
		t.Errorf("shape storage pool len = %d, want %d", got, want)
	}
	if got, want := pools.TapeStorageLen(), 3; got != want {
		t.Errorf("tape storage pool len = %d, want %d", got, want)
	}
}

func TestHandle_CloneDropsChild(t *testing.T) {
	var pools Pools
	h := New(newFakeShape(10))
	_ = h.ITape(&pools)
	h.Simplify(&fakeTrace{n: 1}, nil, &pools)

	c := h.Clone()
	if c.next != nil {
		t.Fatal("Clone must drop the child chain")
	}
	if c.iTape == nil {
		t.Fatal("Clone must keep the shared tape reference")
	}
}
