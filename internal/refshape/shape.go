package refshape

import "github.com/mbrt/isosurf/internal/shape"

// Shape wraps an expression tree as a shape.Shape.
type Shape struct {
	root *Node
	size int
}

// New builds a Shape from an expression tree.
func New(root *Node) *Shape {
	return &Shape{root: root, size: countNodes(root)}
}

func (s *Shape) Size() int { return s.size }

func (s *Shape) IntervalTape(shape.TapeStorage) shape.IntervalTape {
	return intervalTape{root: s.root}
}

func (s *Shape) FloatTape(shape.TapeStorage) shape.FloatTape {
	return floatTape{root: s.root}
}

func (s *Shape) GradTape(shape.TapeStorage) shape.GradTape {
	return gradTape{root: s.root}
}

// Simplify rewrites the tree under trace's recorded Min/Max decisions.
// This reference implementation holds no reusable storage, so the storage
// argument is ignored and Recycle always returns nil.
func (s *Shape) Simplify(trace shape.Trace, _ shape.Storage, _ shape.Workspace) shape.Shape {
	tr := trace.(*Trace)
	return New(simplify(s.root, tr))
}

func (s *Shape) Recycle() shape.Storage { return nil }

type intervalTape struct{ root *Node }

func (t intervalTape) Eval(box shape.AABB3) (shape.Interval, shape.Trace) {
	tr := NewTrace()
	iv := evalInterval(t.root, box, tr)
	return iv, tr
}
func (t intervalTape) Recycle() shape.TapeStorage { return nil }

type floatTape struct{ root *Node }

func (t floatTape) Eval(xs, ys, zs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		z := 0.0
		if zs != nil {
			z = zs[i]
		}
		out[i] = evalFloat(t.root, xs[i], ys[i], z)
	}
	return out
}
func (t floatTape) Recycle() shape.TapeStorage { return nil }

type gradTape struct{ root *Node }

func (t gradTape) Eval(xs, ys, zs []float64) []shape.Gradient3 {
	out := make([]shape.Gradient3, len(xs))
	for i := range xs {
		z := 0.0
		if zs != nil {
			z = zs[i]
		}
		g := evalGrad(t.root, xs[i], ys[i], z)
		out[i] = shape.Gradient3{DX: g.dx, DY: g.dy, DZ: g.dz}
	}
	return out
}
func (t gradTape) Recycle() shape.TapeStorage { return nil }
