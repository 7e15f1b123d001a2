// Package rendermode adapts the tile recursion's raw per-tile and
// per-pixel outcomes (filled tile, empty tile, per-pixel f or ∇f) into
// final output pixels (spec.md §4.5).
package rendermode

import (
	"image"
	"image/color"

	"github.com/mbrt/isosurf/internal/shape"
)

// Mode2D is the capability bundle a 2D render mode exposes to the tile
// recursion driver. All coordinates are absolute image pixel coordinates;
// implementations own their full-image output buffer.
type Mode2D interface {
	// FillTile marks the half-open rectangle [x0,x1)x[y0,y1) as fully
	// inside the surface (the tile's interval test proved it without
	// needing per-pixel evaluation).
	FillTile(x0, y0, x1, y1, level int)
	// SetPixel records the per-pixel result of bulk float evaluation.
	SetPixel(x, y int, f float64, level int)
	// NeedsGradient reports whether leaf evaluation should use the
	// gradient tape (and call SetPixelGrad) instead of the float tape.
	NeedsGradient() bool
	// SetPixelGrad is used instead of SetPixel when NeedsGradient is true.
	SetPixelGrad(x, y int, f float64, g shape.Gradient3, level int)
}

// BitMode renders a boolean inside/outside mask.
type BitMode struct {
	w, h int
	bits []bool
}

// NewBitMode allocates a mask for a w x h image, initialized to "empty"
// (outside) everywhere.
func NewBitMode(w, h int) *BitMode {
	return &BitMode{w: w, h: h, bits: make([]bool, w*h)}
}

func (m *BitMode) Width() int  { return m.w }
func (m *BitMode) Height() int { return m.h }

// At reports whether pixel (x,y) is inside the surface.
func (m *BitMode) At(x, y int) bool { return m.bits[y*m.w+x] }

func (m *BitMode) FillTile(x0, y0, x1, y1, _ int) {
	for y := y0; y < y1; y++ {
		row := m.bits[y*m.w : y*m.w+m.w]
		for x := x0; x < x1; x++ {
			row[x] = true
		}
	}
}

func (m *BitMode) SetPixel(x, y int, f float64, _ int) {
	m.bits[y*m.w+x] = f <= 0
}

func (m *BitMode) NeedsGradient() bool { return false }
func (m *BitMode) SetPixelGrad(x, y int, f float64, _ shape.Gradient3, level int) {
	m.SetPixel(x, y, f, level)
}

// SDFMode renders a diagnostic RGB ramp of f's value: deep inside is pure
// blue, the surface (f=0) is white, deep outside is pure red. Not a
// perceptual color space — a simple linear clamp, since shading/texturing
// is out of scope (spec.md §1 non-goals).
type SDFMode struct {
	img   *image.RGBA
	scale float64 // f values beyond +/-scale saturate the ramp
}

// NewSDFMode allocates an SDF ramp image. scale controls how quickly the
// ramp saturates; a reasonable default is 1.0 for a unit-scale shape.
func NewSDFMode(w, h int, scale float64) *SDFMode {
	return &SDFMode{img: image.NewRGBA(image.Rect(0, 0, w, h)), scale: scale}
}

func (m *SDFMode) Image() *image.RGBA { return m.img }

func sdfRamp(f, scale float64) color.RGBA {
	t := f / scale
	if t > 1 {
		t = 1
	} else if t < -1 {
		t = -1
	}
	// t in [-1,1]: negative (inside) -> blue, positive (outside) -> red,
	// zero -> white.
	if t < 0 {
		v := uint8(255 * (1 + t))
		return color.RGBA{R: v, G: v, B: 255, A: 255}
	}
	v := uint8(255 * (1 - t))
	return color.RGBA{R: 255, G: v, B: v, A: 255}
}

func (m *SDFMode) FillTile(x0, y0, x1, y1 int, _ int) {
	c := sdfRamp(-m.scale, m.scale) // interior fill uses the saturated "deep inside" color
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.img.SetRGBA(x, y, c)
		}
	}
}

func (m *SDFMode) SetPixel(x, y int, f float64, _ int) {
	m.img.SetRGBA(x, y, sdfRamp(f, m.scale))
}

func (m *SDFMode) NeedsGradient() bool { return false }
func (m *SDFMode) SetPixelGrad(x, y int, f float64, _ shape.Gradient3, level int) {
	m.SetPixel(x, y, f, level)
}

// DebugMode colors each pixel by the tile level that resolved it, making
// the recursion's hierarchy visible. Only tiles filled as inside and pixels
// evaluated at the leaf are painted; tiles proved outside by the interval
// test are left unpainted (transparent black), whatever their level.
type DebugMode struct {
	img     *image.RGBA
	palette []color.RGBA
}

// NewDebugMode allocates a debug image. levels should be the number of
// TileSizes levels (palette wraps if a deeper level is reported).
func NewDebugMode(w, h, levels int) *DebugMode {
	return &DebugMode{img: image.NewRGBA(image.Rect(0, 0, w, h)), palette: debugPalette(levels)}
}

func (m *DebugMode) Image() *image.RGBA { return m.img }

func debugPalette(levels int) []color.RGBA {
	base := []color.RGBA{
		{R: 0x3b, G: 0x4c, B: 0xca, A: 0xff},
		{R: 0x2e, G: 0xa0, B: 0x6b, A: 0xff},
		{R: 0xe0, G: 0xa1, B: 0x2e, A: 0xff},
		{R: 0xd6, G: 0x43, B: 0x43, A: 0xff},
		{R: 0x8e, G: 0x44, B: 0xc7, A: 0xff},
	}
	if levels <= len(base) {
		return base
	}
	out := make([]color.RGBA, levels)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

func (m *DebugMode) colorFor(level int) color.RGBA {
	return m.palette[level%len(m.palette)]
}

func (m *DebugMode) FillTile(x0, y0, x1, y1, level int) {
	c := m.colorFor(level)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.img.SetRGBA(x, y, c)
		}
	}
}

func (m *DebugMode) SetPixel(x, y int, _ float64, level int) {
	m.img.SetRGBA(x, y, m.colorFor(level))
}

func (m *DebugMode) NeedsGradient() bool { return false }
func (m *DebugMode) SetPixelGrad(x, y int, f float64, _ shape.Gradient3, level int) {
	m.SetPixel(x, y, f, level)
}
