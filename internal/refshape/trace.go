package refshape

import "github.com/mbrt/isosurf/internal/shape"

type choice int

const (
	choiceLeft choice = iota
	choiceRight
)

// Trace records, per Min/Max node (keyed by its choiceID), which side
// interval evaluation proved decidable.
type Trace struct {
	decisions map[int64]choice
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{decisions: make(map[int64]choice)}
}

func (t *Trace) record(id int64, c choice) {
	if t.decisions == nil {
		t.decisions = make(map[int64]choice)
	}
	t.decisions[id] = c
}

// Equal implements shape.Trace.
func (t *Trace) Equal(other shape.Trace) bool {
	o, ok := other.(*Trace)
	if !ok || len(o.decisions) != len(t.decisions) {
		return false
	}
	for id, c := range t.decisions {
		if oc, ok := o.decisions[id]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Clone implements shape.Trace.
func (t *Trace) Clone() shape.Trace {
	cp := make(map[int64]choice, len(t.decisions))
	for k, v := range t.decisions {
		cp[k] = v
	}
	return &Trace{decisions: cp}
}

// CopyFrom implements shape.Trace, reusing the receiver's map.
func (t *Trace) CopyFrom(other shape.Trace) {
	o := other.(*Trace)
	for k := range t.decisions {
		delete(t.decisions, k)
	}
	if t.decisions == nil {
		t.decisions = make(map[int64]choice, len(o.decisions))
	}
	for k, v := range o.decisions {
		t.decisions[k] = v
	}
}

// Empty reports whether no decisions were recorded (the tile recursion
// driver skips calling Simplify when this holds — spec.md §4.3 step 3).
func (t *Trace) Empty() bool { return len(t.decisions) == 0 }
