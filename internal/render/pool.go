package render

import "github.com/mbrt/isosurf/internal/shape"

// Pools are the per-thread LIFO free-lists backing shape and tape storage
// recycling (spec.md §4.6). They are not safe for concurrent use; each
// worker owns its own.
type Pools struct {
	shapeStorage []shape.Storage
	tapeStorage  []shape.TapeStorage
}

// PopShapeStorage returns a previously recycled ShapeStorage, or nil if the
// pool is empty (the caller should then allocate fresh).
func (p *Pools) PopShapeStorage() shape.Storage {
	n := len(p.shapeStorage)
	if n == 0 {
		return nil
	}
	s := p.shapeStorage[n-1]
	p.shapeStorage[n-1] = nil
	p.shapeStorage = p.shapeStorage[:n-1]
	return s
}

// PushShapeStorage returns s to the pool. A nil s is silently ignored, so
// callers can unconditionally forward a Shape.Recycle() result.
func (p *Pools) PushShapeStorage(s shape.Storage) {
	if s == nil {
		return
	}
	p.shapeStorage = append(p.shapeStorage, s)
}

// PopTapeStorage is the TapeStorage equivalent of PopShapeStorage.
func (p *Pools) PopTapeStorage() shape.TapeStorage {
	n := len(p.tapeStorage)
	if n == 0 {
		return nil
	}
	s := p.tapeStorage[n-1]
	p.tapeStorage[n-1] = nil
	p.tapeStorage = p.tapeStorage[:n-1]
	return s
}

// PushTapeStorage returns s to the pool. A nil s is silently ignored.
func (p *Pools) PushTapeStorage(s shape.TapeStorage) {
	if s == nil {
		return
	}
	p.tapeStorage = append(p.tapeStorage, s)
}

// ShapeStorageLen and TapeStorageLen expose the free-list depths, mainly for
// pool-conservation tests.
func (p *Pools) ShapeStorageLen() int { return len(p.shapeStorage) }
func (p *Pools) TapeStorageLen() int  { return len(p.tapeStorage) }
