package shape

import "sync/atomic"

// Shared is a reference-counted cell, standing in for the tape sharing
// (Arc<..>) described in spec.md §4.2/§9: tapes are built once and cloned
// cheaply across worker goroutines, but their backing TapeStorage must only
// be reclaimed once every clone has released its reference.
type Shared[T any] struct {
	refs  *int64
	value T
}

// NewShared wraps v with an initial reference count of 1.
func NewShared[T any](v T) *Shared[T] {
	n := int64(1)
	return &Shared[T]{refs: &n, value: v}
}

// Value returns the wrapped value.
func (s *Shared[T]) Value() T { return s.value }

// Clone bumps the reference count and returns a new handle to the same
// value.
func (s *Shared[T]) Clone() *Shared[T] {
	atomic.AddInt64(s.refs, 1)
	return &Shared[T]{refs: s.refs, value: s.value}
}

// Release drops this reference. If it was the last outstanding clone, ok is
// true and the caller is responsible for reclaiming the value's backing
// storage; otherwise the value must not be touched (another clone still
// observes it).
func (s *Shared[T]) Release() (v T, ok bool) {
	if atomic.AddInt64(s.refs, -1) == 0 {
		return s.value, true
	}
	var zero T
	return zero, false
}

// CloneShared clones a possibly-nil Shared, returning nil for nil input.
func CloneShared[T any](s *Shared[T]) *Shared[T] {
	if s == nil {
		return nil
	}
	return s.Clone()
}
