// Package render3d implements the 3D tile recursion driver: the same
// interval-test/simplify/descend recursion as internal/render2d, plus
// Z-occlusion pruning against a per-pixel heightmap and a front-to-back
// per-voxel-column surface search at the leaf level (spec.md §4.4).
//
// The normal pass spec.md §4.4 describes as a separate bulk step ("after
// the full heightmap is known, collect all surface points into a bulk
// gradient evaluation") is instead computed inline, at the voxel where the
// surface is found: Mode3D.SetSurface already takes the gradient alongside
// the depth, and computing it immediately avoids a second full image walk
// to re-locate every hit. Only leaf-level column hits get a normal: pixels
// whose depth comes from a tile proved inside (Mode3D.FillRegion) are given
// a depth and no gradient is evaluated for them.
package render3d

import (
	"github.com/mbrt/isosurf/internal/render"
	"github.com/mbrt/isosurf/internal/rendermode"
	"github.com/mbrt/isosurf/internal/shape"
	"github.com/mbrt/isosurf/internal/view"
)

// Config is the 3D render configuration (the concretization of spec.md
// §6's RenderConfig for 3D).
type Config struct {
	Size  view.VoxelSize
	Tiles *render.TileSizes
	View  view.View3
	// Verbose gates the concurrency orchestrator's log.Printf diagnostics;
	// render3d itself never logs.
	Verbose bool
}

// RenderTile recursively renders a single root tile, whose origin is
// (originX, originY, originZ) in absolute voxel coordinates, into mode.
// mode is indexed in its own, buffer-local coordinate space, which starts
// at (offX, offY) in the same absolute system; for a mode spanning the
// whole image offX=offY=0, while a worker-local per-root-tile buffer
// (internal/concurrency) passes the tile's own origin so that pixel (0,0)
// in the buffer lines up with (originX, originY) in world space. handle is
// the root RenderHandle for the whole scene; pools and workspace are owned
// exclusively by the calling worker.
func RenderTile(handle *render.Handle, cfg Config, originX, originY, originZ, offX, offY int, mode rendermode.Mode3D, pools *render.Pools, workspace shape.Workspace) {
	recurse(handle, cfg, originX, originY, originZ, offX, offY, cfg.Tiles.At(0), 0, mode, pools, workspace)
}

func recurse(h *render.Handle, cfg Config, x0, y0, z0, offX, offY, tileSize, level int, mode rendermode.Mode3D, pools *render.Pools, workspace shape.Workspace) {
	x1, y1, z1 := x0+tileSize, y0+tileSize, z0+tileSize
	box := cfg.View.TileAABB(cfg.Size, x0, y0, z0, x1, y1, z1)

	// Occlusion cull: if every pixel in this tile's XY footprint already has
	// a known surface nearer than this tile's own near face, nothing behind
	// it can ever win the per-pixel max (spec.md §4.4). mode is indexed
	// relative to offX/offY; x0/y0 stay absolute for the view transform.
	if box.Max.Z <= mode.MinDepth(x0-offX, y0-offY, x1-offX, y1-offY) {
		return
	}

	it := h.ITape(pools)
	iv, trace := it.Eval(box)

	switch {
	case iv.Outside():
		return
	case iv.Inside():
		mode.FillRegion(x0-offX, y0-offY, x1-offX, y1-offY, box.Max.Z, level)
		return
	}

	child := h
	if !shape.TraceIsEmpty(trace) {
		child = h.Simplify(trace, workspace, pools)
	}

	if level+1 < cfg.Tiles.Len() {
		next := cfg.Tiles.At(level + 1)
		sub := cfg.Tiles.SubTiles(level)
		// Descending-Z (front-to-back) sub-tile order: resolving nearer
		// sub-tiles first lets later, farther ones in the same parent be
		// occlusion-culled by the heightmap this loop itself is building.
		for k := sub - 1; k >= 0; k-- {
			for j := 0; j < sub; j++ {
				for i := 0; i < sub; i++ {
					recurse(child, cfg, x0+i*next, y0+j*next, z0+k*next, offX, offY, next, level+1, mode, pools, workspace)
				}
			}
		}
		return
	}

	evalColumn(child, cfg, x0, y0, z0, offX, offY, tileSize, level, mode, pools)
}

// evalColumn performs the leaf-level per-voxel search. For each (x,y) in
// the tile's footprint, it bulk-evaluates the whole Z column in one tape
// call, then scans the results from the last slice element to the first
// (descending Z, i.e. nearest first) to find the first inside voxel, matching spec.md §4.4's
// front-to-back column scan. x0/y0/z0 and the voxel centers fed to the
// tape are absolute world coordinates; mode is always addressed at
// (x-offX, y-offY).
func evalColumn(h *render.Handle, cfg Config, x0, y0, z0, offX, offY, tileSize, level int, mode rendermode.Mode3D, pools *render.Pools) {
	ft := h.FTape(pools)
	n := tileSize
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)

	for y := y0; y < y0+tileSize; y++ {
		for x := x0; x < x0+tileSize; x++ {
			mx, my := x-offX, y-offY
			if box := cfg.View.TileAABB(cfg.Size, x, y, z0, x+1, y+1, z0+tileSize); box.Max.Z <= mode.DepthAt(mx, my) {
				continue // already occluded by a nearer surface found elsewhere
			}
			for i, z := 0, z0; z < z0+tileSize; i, z = i+1, z+1 {
				p := cfg.View.VoxelCenter(cfg.Size, x, y, z)
				xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
			}
			fs := ft.Eval(xs, ys, zs)

			for i := n - 1; i >= 0; i-- {
				if fs[i] > 0 {
					continue
				}
				g := shape.Gradient3{}
				if mode.NeedsGradient() {
					gt := h.GTape(pools)
					gs := gt.Eval(xs[i:i+1], ys[i:i+1], zs[i:i+1])
					g = gs[0]
				}
				mode.SetSurface(mx, my, zs[i], g, level)
				break
			}
		}
	}
}
