// Package shape defines the evaluator contracts the render core depends on.
//
// The shape compiler/JIT that produces concrete evaluators is an external
// collaborator (see the reference implementation in internal/refshape for a
// minimal stand-in used by tests). This package only describes the contract:
// a Shape lazily produces interval, bulk-float, and bulk-gradient tapes, and
// can be simplified against an interval evaluation's trace.
package shape

// Storage is an opaque, reusable allocation backing a Shape's internal
// representation. Implementations decide what it holds; the render core
// only ever moves it between a Shape and a storage pool.
type Storage interface{}

// TapeStorage is the tape-side equivalent of Storage.
type TapeStorage interface{}

// Workspace is scratch space reused across calls to Shape.Simplify.
type Workspace interface{}

// Trace records which sub-expressions had sign-decidable intervals during
// interval evaluation. It is passed to Shape.Simplify to derive a reduced,
// equivalent shape valid under those decisions.
type Trace interface {
	// Equal reports whether two traces recorded the same decisions.
	Equal(other Trace) bool
	// Clone returns an independent copy.
	Clone() Trace
	// CopyFrom overwrites the receiver with other's contents, reusing the
	// receiver's backing allocation where possible.
	CopyFrom(other Trace)
}

// IntervalTape is consumed by interval evaluation.
type IntervalTape interface {
	// Eval bounds f over box, returning the trace of sign decisions made
	// along the way (empty if no choice was sign-decidable over box).
	Eval(box AABB3) (Interval, Trace)
	Recycle() TapeStorage
}

// FloatTape is consumed by bulk (per-pixel/per-voxel) float evaluation.
type FloatTape interface {
	// Eval evaluates f elementwise over xs, ys, zs. zs may be nil, in which
	// case every point is evaluated at z=0 (the 2D case).
	Eval(xs, ys, zs []float64) []float64
	Recycle() TapeStorage
}

// GradTape is consumed by bulk gradient evaluation.
type GradTape interface {
	// Eval evaluates ∇f elementwise over xs, ys, zs. zs may be nil (2D case).
	Eval(xs, ys, zs []float64) []Gradient3
	Recycle() TapeStorage
}

// TraceIsEmpty reports whether tr recorded no sign decisions, letting
// callers skip an otherwise-pointless call to Shape.Simplify (spec.md
// §4.3 step 3: "If the tracing evaluator produced a non-empty trace...").
// Trace implementations that don't support the check (no Empty() bool
// method) are conservatively treated as non-empty.
func TraceIsEmpty(tr Trace) bool {
	e, ok := tr.(interface{ Empty() bool })
	return ok && e.Empty()
}

// Shape is an opaque implicit function f(x,y[,z]) whose sign distinguishes
// "inside" (f<=0) from "outside" (f>0). Shapes are value-typed with
// exclusive ownership of their backing Storage.
type Shape interface {
	// Size is a proxy for evaluation cost, used to decide whether a
	// simplification is worth adopting.
	Size() int

	IntervalTape(storage TapeStorage) IntervalTape
	FloatTape(storage TapeStorage) FloatTape
	GradTape(storage TapeStorage) GradTape

	// Simplify returns an equivalent shape under trace's sign decisions. It
	// may reuse storage. The caller decides whether to adopt the result
	// (based on Size()); rejected results must still have Recycle() called
	// on them so their storage returns to the pool.
	Simplify(trace Trace, storage Storage, workspace Workspace) Shape

	// Recycle releases the shape's backing storage for reuse. It returns
	// nil if the shape held no reusable storage.
	Recycle() Storage
}
