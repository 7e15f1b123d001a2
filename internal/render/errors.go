package render

import "fmt"

// TileSizeErrorKind distinguishes the three ways a tile-size list can fail
// validation.
type TileSizeErrorKind int

const (
	// EmptyTileSizes: the list had no elements.
	EmptyTileSizes TileSizeErrorKind = iota + 1
	// BadTileOrder: sizes[i-1] was not strictly greater than sizes[i].
	BadTileOrder
	// BadTileSize: sizes[i-1] was not evenly divisible by sizes[i].
	BadTileSize
)

// TileSizeError is returned by NewTileSizes when the invariants in
// spec.md §3/§4.1 are violated. A and B are populated for BadTileOrder and
// BadTileSize (the adjacent pair that failed); both are zero for
// EmptyTileSizes.
type TileSizeError struct {
	Kind TileSizeErrorKind
	A, B int
}

func (e *TileSizeError) Error() string {
	switch e.Kind {
	case EmptyTileSizes:
		return "tile sizes: list must not be empty"
	case BadTileOrder:
		return fmt.Sprintf("tile sizes: %d must be strictly greater than %d", e.A, e.B)
	case BadTileSize:
		return fmt.Sprintf("tile sizes: %d is not evenly divisible by %d", e.A, e.B)
	default:
		return "tile sizes: invalid"
	}
}

// Is supports errors.Is(err, render.EmptyTileSizes) and friends by treating
// a bare TileSizeErrorKind as a pattern matching any TileSizeError with the
// same Kind.
func (e *TileSizeError) Is(target error) bool {
	k, ok := target.(TileSizeErrorKind)
	return ok && k == e.Kind
}

// Error makes TileSizeErrorKind itself satisfy the error interface so it can
// be used directly as an errors.Is target without constructing a full
// TileSizeError.
func (k TileSizeErrorKind) Error() string {
	return (&TileSizeError{Kind: k}).Error()
}
