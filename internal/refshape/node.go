// Package refshape is a minimal reference implementation of the
// internal/shape evaluator contracts: a small closed-form expression tree
// supporting the arithmetic ops needed by spec.md §8's literal test
// scenarios, plus Min/Max so simplification has something real to do.
//
// This is not the shape compiler/JIT named as an out-of-scope external
// collaborator in spec.md §1 — it exists so the render core's tests and
// examples have a concrete Shape to render, the way a renderer's own test
// suite always carries one reference evaluator.
package refshape

import "sync/atomic"

// Kind identifies a node's operation.
type Kind int

const (
	KindConst Kind = iota
	KindVarX
	KindVarY
	KindVarZ
	KindAdd
	KindSub
	KindMul
	KindNeg
	KindSqrt
	KindMin
	KindMax
)

var nextChoiceID int64

// Node is one expression-tree node. Min and Max nodes carry a choiceID
// uniquely identifying them within the process, used to key trace
// decisions during simplification.
type Node struct {
	Kind     Kind
	Const    float64
	A, B     *Node
	choiceID int64
}

func binary(k Kind, a, b *Node) *Node { return &Node{Kind: k, A: a, B: b} }

// Const returns a constant-valued node.
func Const(v float64) *Node { return &Node{Kind: KindConst, Const: v} }

// X, Y, Z return the coordinate variable nodes.
func X() *Node { return &Node{Kind: KindVarX} }
func Y() *Node { return &Node{Kind: KindVarY} }
func Z() *Node { return &Node{Kind: KindVarZ} }

func Add(a, b *Node) *Node { return binary(KindAdd, a, b) }
func Sub(a, b *Node) *Node { return binary(KindSub, a, b) }
func Mul(a, b *Node) *Node { return binary(KindMul, a, b) }
func Neg(a *Node) *Node    { return &Node{Kind: KindNeg, A: a} }
func Sqrt(a *Node) *Node   { return &Node{Kind: KindSqrt, A: a} }

// Min and Max are the boolean-CSG primitives (union = Min of two SDFs,
// intersection = Max). Each gets a fresh choiceID so traces can record
// which side was decidable.
func Min(a, b *Node) *Node {
	return &Node{Kind: KindMin, A: a, B: b, choiceID: atomic.AddInt64(&nextChoiceID, 1)}
}
func Max(a, b *Node) *Node {
	return &Node{Kind: KindMax, A: a, B: b, choiceID: atomic.AddInt64(&nextChoiceID, 1)}
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.A) + countNodes(n.B)
}

// simplify rewrites n under trace's decisions: a Min/Max node whose
// choiceID has a recorded decision collapses to whichever side was
// decidable; everything else is rebuilt (preserving choiceIDs for
// unresolved Min/Max nodes so future traces can still reference them).
func simplify(n *Node, tr *Trace) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindConst, KindVarX, KindVarY, KindVarZ:
		return n
	case KindMin, KindMax:
		if c, ok := tr.decisions[n.choiceID]; ok {
			if c == choiceLeft {
				return simplify(n.A, tr)
			}
			return simplify(n.B, tr)
		}
		return &Node{Kind: n.Kind, A: simplify(n.A, tr), B: simplify(n.B, tr), choiceID: n.choiceID}
	default:
		a := simplify(n.A, tr)
		var b *Node
		if n.B != nil {
			b = simplify(n.B, tr)
		}
		return &Node{Kind: n.Kind, Const: n.Const, A: a, B: b}
	}
}
