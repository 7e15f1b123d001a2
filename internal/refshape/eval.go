package refshape

import (
	"math"

	"github.com/mbrt/isosurf/internal/shape"
)

func evalInterval(n *Node, box shape.AABB3, tr *Trace) shape.Interval {
	switch n.Kind {
	case KindConst:
		return shape.Interval{Lo: n.Const, Hi: n.Const}
	case KindVarX:
		return shape.Interval{Lo: box.Min.X, Hi: box.Max.X}
	case KindVarY:
		return shape.Interval{Lo: box.Min.Y, Hi: box.Max.Y}
	case KindVarZ:
		return shape.Interval{Lo: box.Min.Z, Hi: box.Max.Z}
	case KindAdd:
		a, b := evalInterval(n.A, box, tr), evalInterval(n.B, box, tr)
		return shape.Interval{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi}
	case KindSub:
		a, b := evalInterval(n.A, box, tr), evalInterval(n.B, box, tr)
		return shape.Interval{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo}
	case KindMul:
		a, b := evalInterval(n.A, box, tr), evalInterval(n.B, box, tr)
		p1, p2, p3, p4 := a.Lo*b.Lo, a.Lo*b.Hi, a.Hi*b.Lo, a.Hi*b.Hi
		return shape.Interval{
			Lo: minOf(p1, p2, p3, p4),
			Hi: maxOf(p1, p2, p3, p4),
		}
	case KindNeg:
		a := evalInterval(n.A, box, tr)
		return shape.Interval{Lo: -a.Hi, Hi: -a.Lo}
	case KindSqrt:
		a := evalInterval(n.A, box, tr)
		lo, hi := math.Max(a.Lo, 0), math.Max(a.Hi, 0)
		return shape.Interval{Lo: math.Sqrt(lo), Hi: math.Sqrt(hi)}
	case KindMin:
		a, b := evalInterval(n.A, box, tr), evalInterval(n.B, box, tr)
		if a.Hi < b.Lo {
			tr.record(n.choiceID, choiceLeft)
		} else if b.Hi < a.Lo {
			tr.record(n.choiceID, choiceRight)
		}
		return shape.Interval{Lo: math.Min(a.Lo, b.Lo), Hi: math.Min(a.Hi, b.Hi)}
	case KindMax:
		a, b := evalInterval(n.A, box, tr), evalInterval(n.B, box, tr)
		if a.Lo > b.Hi {
			tr.record(n.choiceID, choiceLeft)
		} else if b.Lo > a.Hi {
			tr.record(n.choiceID, choiceRight)
		}
		return shape.Interval{Lo: math.Max(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
	default:
		panic("refshape: unknown node kind")
	}
}

func minOf(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func evalFloat(n *Node, x, y, z float64) float64 {
	switch n.Kind {
	case KindConst:
		return n.Const
	case KindVarX:
		return x
	case KindVarY:
		return y
	case KindVarZ:
		return z
	case KindAdd:
		return evalFloat(n.A, x, y, z) + evalFloat(n.B, x, y, z)
	case KindSub:
		return evalFloat(n.A, x, y, z) - evalFloat(n.B, x, y, z)
	case KindMul:
		return evalFloat(n.A, x, y, z) * evalFloat(n.B, x, y, z)
	case KindNeg:
		return -evalFloat(n.A, x, y, z)
	case KindSqrt:
		return math.Sqrt(math.Max(evalFloat(n.A, x, y, z), 0))
	case KindMin:
		return math.Min(evalFloat(n.A, x, y, z), evalFloat(n.B, x, y, z))
	case KindMax:
		return math.Max(evalFloat(n.A, x, y, z), evalFloat(n.B, x, y, z))
	default:
		panic("refshape: unknown node kind")
	}
}

// gradVal carries a value alongside its partial derivatives, threaded
// through evalGrad by ordinary chain-rule recursion.
type gradVal struct {
	f, dx, dy, dz float64
}

func evalGrad(n *Node, x, y, z float64) gradVal {
	switch n.Kind {
	case KindConst:
		return gradVal{f: n.Const}
	case KindVarX:
		return gradVal{f: x, dx: 1}
	case KindVarY:
		return gradVal{f: y, dy: 1}
	case KindVarZ:
		return gradVal{f: z, dz: 1}
	case KindAdd:
		a, b := evalGrad(n.A, x, y, z), evalGrad(n.B, x, y, z)
		return gradVal{a.f + b.f, a.dx + b.dx, a.dy + b.dy, a.dz + b.dz}
	case KindSub:
		a, b := evalGrad(n.A, x, y, z), evalGrad(n.B, x, y, z)
		return gradVal{a.f - b.f, a.dx - b.dx, a.dy - b.dy, a.dz - b.dz}
	case KindMul:
		a, b := evalGrad(n.A, x, y, z), evalGrad(n.B, x, y, z)
		return gradVal{
			f:  a.f * b.f,
			dx: a.dx*b.f + a.f*b.dx,
			dy: a.dy*b.f + a.f*b.dy,
			dz: a.dz*b.f + a.f*b.dz,
		}
	case KindNeg:
		a := evalGrad(n.A, x, y, z)
		return gradVal{-a.f, -a.dx, -a.dy, -a.dz}
	case KindSqrt:
		a := evalGrad(n.A, x, y, z)
		f := math.Sqrt(math.Max(a.f, 0))
		if f == 0 {
			return gradVal{f: 0}
		}
		k := 1 / (2 * f)
		return gradVal{f, a.dx * k, a.dy * k, a.dz * k}
	case KindMin:
		a, b := evalGrad(n.A, x, y, z), evalGrad(n.B, x, y, z)
		if a.f <= b.f {
			return a
		}
		return b
	case KindMax:
		a, b := evalGrad(n.A, x, y, z), evalGrad(n.B, x, y, z)
		if a.f >= b.f {
			return a
		}
		return b
	default:
		panic("refshape: unknown node kind")
	}
}
