package render

import "runtime"

// ThreadCount selects how many OS threads (goroutines, in this
// implementation) the concurrency orchestrator partitions work across.
type ThreadCount struct {
	kind threadKind
	n    int
}

type threadKind int

const (
	threadOne threadKind = iota
	threadAll
	threadN
)

// OneThread renders single-threaded (useful for debugging and for the
// determinism property in spec.md §8, which compares 1-thread and
// N-thread renders).
func OneThread() ThreadCount { return ThreadCount{kind: threadOne} }

// AllThreads uses runtime.NumCPU() workers.
func AllThreads() ThreadCount { return ThreadCount{kind: threadAll} }

// NThreads uses exactly n workers (n must be >= 1).
func NThreads(n int) ThreadCount { return ThreadCount{kind: threadN, n: n} }

// Resolve returns the concrete worker count for this ThreadCount.
func (t ThreadCount) Resolve() int {
	switch t.kind {
	case threadOne:
		return 1
	case threadN:
		if t.n < 1 {
			return 1
		}
		return t.n
	default:
		n := runtime.NumCPU()
		if n < 1 {
			return 1
		}
		return n
	}
}
