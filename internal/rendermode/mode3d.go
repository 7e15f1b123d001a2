package rendermode

import (
	"image"
	"image/color"
	"math"

	"github.com/mbrt/isosurf/internal/shape"
)

// NoSurface is the heightmap sentinel for "behind camera" / "no surface
// found in this column" (spec.md §3, "3D Heightmap").
var NoSurface = math.Inf(-1)

// Mode3D is the capability bundle a 3D render mode exposes to the tile
// recursion driver. Unlike Mode2D, workers render into a worker-local
// buffer (see internal/render3d) that is later composited into the final
// one via Merge, because the 3D composite is a per-pixel max-depth
// reduction rather than disjoint writes (spec.md §4.7).
type Mode3D interface {
	Width() int
	Height() int

	// DepthAt returns the currently-known depth at (x,y), or NoSurface.
	DepthAt(x, y int) float64
	// MinDepth returns the minimum known depth over the half-open
	// rectangle [x0,x1)x[y0,y1), used for occlusion pruning: a sub-tile
	// whose z upper bound is <= this value can be skipped entirely.
	MinDepth(x0, y0, x1, y1 int) float64

	// FillRegion marks the rectangle as resolved "inside" at depth z,
	// keeping the max (nearest) depth per pixel.
	FillRegion(x0, y0, x1, y1 int, z float64, level int)
	// SetSurface records the first (nearest) surface hit in a voxel
	// column, along with its normal if NeedsGradient is true.
	SetSurface(x, y int, z float64, g shape.Gradient3, level int)

	NeedsGradient() bool

	// Merge composites another, typically smaller, same-kind buffer into
	// this one at pixel offset (originX, originY), keeping the max depth
	// per pixel (nearest wins). Used to combine worker-local tile buffers
	// into the final image.
	Merge(other Mode3D, originX, originY int)

	// NewLocal returns a fresh buffer of the same kind sized w x h, for a
	// worker to render one root tile's footprint into before merging.
	NewLocal(w, h int) Mode3D
}

// HeightmapMode renders the depth (Z) of the nearest surface hit per pixel.
type HeightmapMode struct {
	w, h  int
	depth []float64
}

// NewHeightmapMode allocates a heightmap sized w x h, initialized to
// NoSurface everywhere.
func NewHeightmapMode(w, h int) *HeightmapMode {
	m := &HeightmapMode{w: w, h: h, depth: make([]float64, w*h)}
	for i := range m.depth {
		m.depth[i] = NoSurface
	}
	return m
}

func (m *HeightmapMode) Width() int  { return m.w }
func (m *HeightmapMode) Height() int { return m.h }

func (m *HeightmapMode) DepthAt(x, y int) float64 { return m.depth[y*m.w+x] }

func (m *HeightmapMode) MinDepth(x0, y0, x1, y1 int) float64 {
	min := math.Inf(1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if d := m.depth[y*m.w+x]; d < min {
				min = d
			}
		}
	}
	return min
}

func (m *HeightmapMode) FillRegion(x0, y0, x1, y1 int, z float64, _ int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*m.w + x
			if z > m.depth[i] {
				m.depth[i] = z
			}
		}
	}
}

func (m *HeightmapMode) SetSurface(x, y int, z float64, _ shape.Gradient3, _ int) {
	i := y*m.w + x
	if z > m.depth[i] {
		m.depth[i] = z
	}
}

func (m *HeightmapMode) NeedsGradient() bool { return false }

func (m *HeightmapMode) Merge(other Mode3D, originX, originY int) {
	o := other.(*HeightmapMode)
	for y := 0; y < o.h; y++ {
		for x := 0; x < o.w; x++ {
			d := o.depth[y*o.w+x]
			i := (y+originY)*m.w + (x + originX)
			if d > m.depth[i] {
				m.depth[i] = d
			}
		}
	}
}

func (m *HeightmapMode) NewLocal(w, h int) Mode3D { return NewHeightmapMode(w, h) }

// ToGray16 exports the heightmap as a lossless 16-bit grayscale image,
// linearly remapped from [loZ, hiZ] to [0, 65535]; pixels with no surface
// hit are left at 0.
func (m *HeightmapMode) ToGray16(loZ, hiZ float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, m.w, m.h))
	span := hiZ - loZ
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			d := m.depth[y*m.w+x]
			if d == NoSurface || span <= 0 {
				continue
			}
			t := (d - loZ) / span
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(t * 65535)})
		}
	}
	return img
}

// ShadedNormalMode renders an RGB encoding of the surface normal at the
// nearest hit per pixel (n*0.5+0.5, matching the common "normal map"
// convention).
type ShadedNormalMode struct {
	w, h    int
	depth   []float64
	normals []shape.Gradient3
}

// NewShadedNormalMode allocates a shaded-normal buffer sized w x h.
func NewShadedNormalMode(w, h int) *ShadedNormalMode {
	m := &ShadedNormalMode{w: w, h: h, depth: make([]float64, w*h), normals: make([]shape.Gradient3, w*h)}
	for i := range m.depth {
		m.depth[i] = NoSurface
	}
	return m
}

func (m *ShadedNormalMode) Width() int  { return m.w }
func (m *ShadedNormalMode) Height() int { return m.h }

func (m *ShadedNormalMode) DepthAt(x, y int) float64 { return m.depth[y*m.w+x] }

func (m *ShadedNormalMode) MinDepth(x0, y0, x1, y1 int) float64 {
	min := math.Inf(1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if d := m.depth[y*m.w+x]; d < min {
				min = d
			}
		}
	}
	return min
}

func (m *ShadedNormalMode) FillRegion(x0, y0, x1, y1 int, z float64, _ int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*m.w + x
			if z > m.depth[i] {
				m.depth[i] = z
			}
		}
	}
}

func (m *ShadedNormalMode) SetSurface(x, y int, z float64, g shape.Gradient3, _ int) {
	i := y*m.w + x
	if z > m.depth[i] {
		m.depth[i] = z
		m.normals[i] = g
	}
}

func (m *ShadedNormalMode) NeedsGradient() bool { return true }

func (m *ShadedNormalMode) Merge(other Mode3D, originX, originY int) {
	o := other.(*ShadedNormalMode)
	for y := 0; y < o.h; y++ {
		for x := 0; x < o.w; x++ {
			d := o.depth[y*o.w+x]
			i := (y+originY)*m.w + (x + originX)
			if d > m.depth[i] {
				m.depth[i] = d
				m.normals[i] = o.normals[y*o.w+x]
			}
		}
	}
}

func (m *ShadedNormalMode) NewLocal(w, h int) Mode3D { return NewShadedNormalMode(w, h) }

// Image renders the normals as an RGBA image; pixels with no surface hit
// are transparent black.
func (m *ShadedNormalMode) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.w, m.h))
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			i := y*m.w + x
			if m.depth[i] == NoSurface {
				continue
			}
			g := m.normals[i]
			l := math.Sqrt(g.DX*g.DX + g.DY*g.DY + g.DZ*g.DZ)
			if l == 0 {
				continue
			}
			nx, ny, nz := g.DX/l, g.DY/l, g.DZ/l
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((nx*0.5 + 0.5) * 255),
				G: uint8((ny*0.5 + 0.5) * 255),
				B: uint8((nz*0.5 + 0.5) * 255),
				A: 255,
			})
		}
	}
	return img
}
