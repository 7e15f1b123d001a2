// Package render implements the tile-recursion core: RenderHandle (lazy
// tapes plus a simplification-cache child chain), TileSizes, and the
// storage-pool recycling discipline they share. The 2D and 3D tile
// recursion drivers (internal/render2d, internal/render3d) build on top of
// this package.
package render

import "github.com/mbrt/isosurf/internal/shape"

// child is the one cached simplification of a Handle's shape, keyed by the
// trace that produced it.
type child struct {
	trace  shape.Trace
	handle *Handle
}

// Handle owns a Shape, its three lazily-built tapes, and an optional cached
// simplification of itself (spec.md §3/§4.2).
//
// The child chain is a linked list of monotonically-simpler shapes along
// one recursion path. Cloning a Handle (for handing a copy to another
// worker) copies the shape and the shared tape references but drops the
// child chain: children are per-recursion-frame state that must never be
// shared across goroutines.
type Handle struct {
	Shape shape.Shape

	iTape *shape.Shared[shape.IntervalTape]
	fTape *shape.Shared[shape.FloatTape]
	gTape *shape.Shared[shape.GradTape]

	next *child
}

// New builds a Handle for shape s. No tapes are built yet.
func New(s shape.Shape) *Handle {
	return &Handle{Shape: s}
}

// Clone returns a copy sharing this Handle's tapes (bumping their reference
// counts) but with no cached child — suitable for handing to another
// worker goroutine.
func (h *Handle) Clone() *Handle {
	return &Handle{
		Shape: h.Shape,
		iTape: shape.CloneShared(h.iTape),
		fTape: shape.CloneShared(h.fTape),
		gTape: shape.CloneShared(h.gTape),
	}
}

// ITape returns this handle's interval tape, building it (popping storage
// from pools, or allocating fresh) on first call.
func (h *Handle) ITape(pools *Pools) shape.IntervalTape {
	if h.iTape == nil {
		t := h.Shape.IntervalTape(pools.PopTapeStorage())
		h.iTape = shape.NewShared(t)
	}
	return h.iTape.Value()
}

// FTape returns this handle's bulk float tape, building it on first call.
func (h *Handle) FTape(pools *Pools) shape.FloatTape {
	if h.fTape == nil {
		t := h.Shape.FloatTape(pools.PopTapeStorage())
		h.fTape = shape.NewShared(t)
	}
	return h.fTape.Value()
}

// GTape returns this handle's bulk gradient tape, building it on first
// call.
func (h *Handle) GTape(pools *Pools) shape.GradTape {
	if h.gTape == nil {
		t := h.Shape.GradTape(pools.PopTapeStorage())
		h.gTape = shape.NewShared(t)
	}
	return h.gTape.Value()
}

// Simplify returns the handle to descend into for the given trace.
//
// If a cached child already matches trace, it's returned directly without
// calling Shape.Simplify again (the fast path tested by spec.md §8's
// "simplify cache reuse" property). Otherwise any stale child is recycled,
// a candidate simplification is built, and it is adopted only if it is
// strictly smaller than the current shape (spec.md §9, "sub-tile acceptance
// threshold" — rejecting equal-size simplifications is intentional: tape
// regeneration would cost more than it saves).
func (h *Handle) Simplify(trace shape.Trace, workspace shape.Workspace, pools *Pools) *Handle {
	var reusableTrace shape.Trace

	if h.next != nil {
		if h.next.trace.Equal(trace) {
			return h.next.handle
		}
		stale := h.next
		h.next = nil
		reusableTrace = stale.trace
		stale.handle.Recycle(pools)
	}

	next := h.Shape.Simplify(trace, pools.PopShapeStorage(), workspace)
	if next.Size() >= h.Shape.Size() {
		pools.PushShapeStorage(next.Recycle())
		return h
	}

	if reusableTrace != nil {
		reusableTrace.CopyFrom(trace)
	} else {
		reusableTrace = trace.Clone()
	}
	h.next = &child{trace: reusableTrace, handle: New(next)}
	return h.next.handle
}

// Recycle recursively recycles this handle's child first (children may
// reference storage the parent is about to reclaim, so they must release
// their hold first), then returns each uniquely-held tape's backing storage
// to pools, then the shape's own storage.
func (h *Handle) Recycle(pools *Pools) {
	if h.next != nil {
		c := h.next
		h.next = nil
		c.handle.Recycle(pools)
	}

	if h.iTape != nil {
		if t, ok := h.iTape.Release(); ok {
			pools.PushTapeStorage(t.Recycle())
		}
		h.iTape = nil
	}
	if h.gTape != nil {
		if t, ok := h.gTape.Release(); ok {
			pools.PushTapeStorage(t.Recycle())
		}
		h.gTape = nil
	}
	if h.fTape != nil {
		if t, ok := h.fTape.Release(); ok {
			pools.PushTapeStorage(t.Recycle())
		}
		h.fTape = nil
	}

	pools.PushShapeStorage(h.Shape.Recycle())
}
