// End-to-end scenarios from spec.md §8, exercised through the public
// render2d/render3d/concurrency APIs against internal/refshape's reference
// evaluator.
package isosurf_test

import (
	"context"
	"math"
	"testing"

	"github.com/mbrt/isosurf/internal/concurrency"
	"github.com/mbrt/isosurf/internal/refshape"
	"github.com/mbrt/isosurf/internal/render"
	"github.com/mbrt/isosurf/internal/render2d"
	"github.com/mbrt/isosurf/internal/render3d"
	"github.com/mbrt/isosurf/internal/rendermode"
	"github.com/mbrt/isosurf/internal/shape"
	"github.com/mbrt/isosurf/internal/view"
)

func noWorkspace() shape.Workspace { return nil }

func unitDiskNode() *refshape.Node {
	return refshape.Sub(refshape.Add(refshape.Mul(refshape.X(), refshape.X()), refshape.Mul(refshape.Y(), refshape.Y())), refshape.Const(1))
}

// Scenario 1: unit disk, 2D bit, 64x64, tiles [64,16,4].
func TestE2E_UnitDiskBit64(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{64, 16, 4})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render2d.Config{
		Size:  view.ImageSize{Width: 64, Height: 64},
		Tiles: sizes,
		View:  view.Identity2(),
	}

	h := render.New(refshape.New(unitDiskNode()))
	mode := rendermode.NewBitMode(64, 64)
	pools := &render.Pools{}
	render2d.RenderTile(h, cfg, 0, 0, mode, pools, nil)

	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			wx := (float64(x)+0.5)/32 - 1
			wy := (float64(y)+0.5)/32 - 1
			want := wx*wx+wy*wy <= 1
			if got := mode.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// Scenario 1 (debug variant): the center pixel lies in a 16x16 tile that
// interval evaluation proves "inside" at level 1, so it gets the level-1
// color; the corner pixel lies in a 4x4 tile proved "outside" at level 2,
// which DebugMode leaves unpainted.
func TestE2E_UnitDiskDebugLevels(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{64, 16, 4})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render2d.Config{
		Size:  view.ImageSize{Width: 64, Height: 64},
		Tiles: sizes,
		View:  view.Identity2(),
	}

	h := render.New(refshape.New(unitDiskNode()))
	mode := rendermode.NewDebugMode(64, 64, sizes.Len())
	pools := &render.Pools{}
	render2d.RenderTile(h, cfg, 0, 0, mode, pools, nil)

	centerColor := mode.Image().RGBAAt(32, 32)
	cornerColor := mode.Image().RGBAAt(0, 0)
	if centerColor == cornerColor {
		t.Fatalf("expected center (level-1 inside fill) and corner (unpainted outside) to differ in color")
	}
}

// Scenario 2: half-plane, 2D bit, 8x8, tiles [8].
func TestE2E_HalfPlaneBit8(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{8})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render2d.Config{
		Size:  view.ImageSize{Width: 8, Height: 8},
		Tiles: sizes,
		View:  view.Identity2(),
	}

	h := render.New(refshape.New(refshape.X()))
	mode := rendermode.NewBitMode(8, 8)
	pools := &render.Pools{}
	render2d.RenderTile(h, cfg, 0, 0, mode, pools, nil)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			wx := (float64(x)+0.5)/4 - 1
			want := wx <= 0
			if got := mode.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// Scenario 3: empty shape (f=1 everywhere), tiles [16,4]. Every pixel
// stays empty and the recursion never descends past root.
func TestE2E_EmptyShape(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{16, 4})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render2d.Config{
		Size:  view.ImageSize{Width: 16, Height: 16},
		Tiles: sizes,
		View:  view.Identity2(),
	}

	simplifyCalled := false
	s := &countingShape{Shape: refshape.New(refshape.Const(1)), onSimplify: func() { simplifyCalled = true }}
	h := render.New(s)
	mode := rendermode.NewBitMode(16, 16)
	pools := &render.Pools{}
	render2d.RenderTile(h, cfg, 0, 0, mode, pools, nil)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if mode.At(x, y) {
				t.Fatalf("pixel (%d,%d) set, want empty", x, y)
			}
		}
	}
	if simplifyCalled {
		t.Fatal("Simplify was called; recursion should have stopped at the root's Outside() test")
	}
}

// Scenario 4: inside-only shape (f=-1 everywhere), tiles [16,4]. Every
// pixel fills at the root-tile level.
func TestE2E_InsideOnlyShape(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{16, 4})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render2d.Config{
		Size:  view.ImageSize{Width: 16, Height: 16},
		Tiles: sizes,
		View:  view.Identity2(),
	}

	h := render.New(refshape.New(refshape.Const(-1)))
	mode := rendermode.NewDebugMode(16, 16, sizes.Len())
	pools := &render.Pools{}
	render2d.RenderTile(h, cfg, 0, 0, mode, pools, nil)

	rootColor := mode.Image().RGBAAt(0, 0)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if c := mode.Image().RGBAAt(x, y); c != rootColor {
				t.Fatalf("pixel (%d,%d) colored %v, want root-level color %v", x, y, c, rootColor)
			}
		}
	}
}

// Scenario 5: sphere, 3D heightmap, 32x32x32, tiles [32,8].
func TestE2E_SphereHeightmap(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{32, 8})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render3d.Config{
		Size:  view.VoxelSize{Width: 32, Height: 32, Depth: 32},
		Tiles: sizes,
		View:  view.Identity3(),
	}

	sphere := refshape.Sub(refshape.Add(refshape.Add(refshape.Mul(refshape.X(), refshape.X()), refshape.Mul(refshape.Y(), refshape.Y())), refshape.Mul(refshape.Z(), refshape.Z())), refshape.Const(1))
	h := render.New(refshape.New(sphere))
	mode := rendermode.NewHeightmapMode(32, 32)
	pools := &render.Pools{}
	render3d.RenderTile(h, cfg, 0, 0, 0, 0, 0, mode, pools, nil)

	const tol = 2.0 / 32 // one voxel's worth of slack from discrete Z sampling
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			wx := (float64(x)+0.5)/16 - 1
			wy := (float64(y)+0.5)/16 - 1
			r2 := wx*wx + wy*wy
			got := mode.DepthAt(x, y)

			switch {
			case r2 >= 1.15:
				// clearly outside the disk
				if got != rendermode.NoSurface {
					t.Fatalf("pixel (%d,%d): got depth %v, want NoSurface (outside disk)", x, y, got)
				}
			case r2 <= 0.85:
				// clearly inside: the true height exceeds a voxel step, so
				// discrete Z sampling is guaranteed to find it
				want := math.Sqrt(1 - r2)
				if math.Abs(got-want) > tol {
					t.Fatalf("pixel (%d,%d): got depth %v, want ~%v", x, y, got, want)
				}
			default:
				// near the silhouette: the true height may be smaller than
				// the Z sampling step, so a miss is not a bug
			}
		}
	}
}

// Concurrency determinism: thread counts 1 and N must produce
// bit-identical images.
func TestE2E_ConcurrencyDeterminism2D(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{32, 8})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render2d.Config{
		Size:  view.ImageSize{Width: 64, Height: 32},
		Tiles: sizes,
		View:  view.Identity2(),
	}

	run := func(tc render.ThreadCount) *rendermode.BitMode {
		root := render.New(refshape.New(unitDiskNode()))
		mode := rendermode.NewBitMode(cfg.Size.Width, cfg.Size.Height)
		if err := concurrency.Render2D(context.Background(), root, cfg, tc, mode, noWorkspace); err != nil {
			t.Fatalf("Render2D: %v", err)
		}
		return mode
	}

	one := run(render.OneThread())
	many := run(render.NThreads(4))

	for y := 0; y < cfg.Size.Height; y++ {
		for x := 0; x < cfg.Size.Width; x++ {
			if one.At(x, y) != many.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs between 1 and 4 threads", x, y)
			}
		}
	}
}

func TestE2E_ConcurrencyDeterminism3D(t *testing.T) {
	sizes, err := render.NewTileSizes([]int{16, 4})
	if err != nil {
		t.Fatal(err)
	}
	cfg := render3d.Config{
		Size:  view.VoxelSize{Width: 32, Height: 16, Depth: 16},
		Tiles: sizes,
		View:  view.Identity3(),
	}

	sphere := refshape.Sub(refshape.Add(refshape.Add(refshape.Mul(refshape.X(), refshape.X()), refshape.Mul(refshape.Y(), refshape.Y())), refshape.Mul(refshape.Z(), refshape.Z())), refshape.Const(1))

	run := func(tc render.ThreadCount) *rendermode.HeightmapMode {
		root := render.New(refshape.New(sphere))
		mode := rendermode.NewHeightmapMode(cfg.Size.Width, cfg.Size.Height)
		if err := concurrency.Render3D(context.Background(), root, cfg, tc, mode, noWorkspace); err != nil {
			t.Fatalf("Render3D: %v", err)
		}
		return mode
	}

	one := run(render.OneThread())
	many := run(render.NThreads(4))

	for y := 0; y < cfg.Size.Height; y++ {
		for x := 0; x < cfg.Size.Width; x++ {
			d1, d4 := one.DepthAt(x, y), many.DepthAt(x, y)
			if d1 != d4 {
				t.Fatalf("pixel (%d,%d) depth differs between 1 and 4 threads: %v vs %v", x, y, d1, d4)
			}
		}
	}
}

// Interval soundness: wherever interval evaluation proves "inside" or
// "outside" over a box, a sampled grid of per-pixel f values agrees.
func TestE2E_IntervalSoundness(t *testing.T) {
	s := refshape.New(unitDiskNode())

	boxes := []shape.AABB3{
		{Min: shape.Vec3{X: -3, Y: -3}, Max: shape.Vec3{X: -2, Y: -2}}, // outside
		{Min: shape.Vec3{X: -0.2, Y: -0.2}, Max: shape.Vec3{X: 0.2, Y: 0.2}}, // inside
		{Min: shape.Vec3{X: -2, Y: -2}, Max: shape.Vec3{X: 2, Y: 2}}, // ambiguous
	}

	for _, box := range boxes {
		it := s.IntervalTape(nil)
		iv, _ := it.Eval(box)
		if !iv.Inside() && !iv.Outside() {
			continue // ambiguous: nothing to check
		}
		ft := s.FloatTape(nil)
		const n = 8
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				x := box.Min.X + (box.Max.X-box.Min.X)*float64(i)/(n-1)
				y := box.Min.Y + (box.Max.Y-box.Min.Y)*float64(j)/(n-1)
				f := ft.Eval([]float64{x}, []float64{y}, nil)[0]
				if iv.Inside() && f > 0 {
					t.Fatalf("box %+v reported Inside but f(%v,%v)=%v > 0", box, x, y, f)
				}
				if iv.Outside() && f <= 0 {
					t.Fatalf("box %+v reported Outside but f(%v,%v)=%v <= 0", box, x, y, f)
				}
			}
		}
	}
}

// countingShape wraps a shape.Shape to detect whether Simplify was ever
// invoked, used by TestE2E_EmptyShape to confirm the recursion short-
// circuits on the root Outside() test.
type countingShape struct {
	shape.Shape
	onSimplify func()
}

func (s *countingShape) Simplify(trace shape.Trace, storage shape.Storage, ws shape.Workspace) shape.Shape {
	s.onSimplify()
	return &countingShape{Shape: s.Shape.Simplify(trace, storage, ws), onSimplify: s.onSimplify}
}
