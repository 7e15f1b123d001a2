// Package render2d implements the 2D tile recursion driver: recursive
// per-tile interval test, simplify, descend; at the leaf, bulk-evaluate
// per-pixel (spec.md §4.3).
package render2d

import (
	"github.com/mbrt/isosurf/internal/render"
	"github.com/mbrt/isosurf/internal/rendermode"
	"github.com/mbrt/isosurf/internal/shape"
	"github.com/mbrt/isosurf/internal/view"
)

// Config is the 2D render configuration (the concretization of spec.md
// §6's RenderConfig for 2D).
type Config struct {
	Size  view.ImageSize
	Tiles *render.TileSizes
	View  view.View2
	// Verbose gates the concurrency orchestrator's log.Printf diagnostics;
	// render2d itself never logs.
	Verbose bool
}

// RenderTile recursively renders a single root tile, whose origin is
// (originX, originY) in absolute pixel coordinates, into mode. handle is
// the root RenderHandle for the whole scene; pools and workspace are owned
// exclusively by the calling worker (not shared across goroutines).
func RenderTile(handle *render.Handle, cfg Config, originX, originY int, mode rendermode.Mode2D, pools *render.Pools, workspace shape.Workspace) {
	recurse(handle, cfg, originX, originY, cfg.Tiles.At(0), 0, mode, pools, workspace)
}

func recurse(h *render.Handle, cfg Config, x0, y0, tileSize, level int, mode rendermode.Mode2D, pools *render.Pools, workspace shape.Workspace) {
	x1, y1 := x0+tileSize, y0+tileSize
	box := cfg.View.TileAABB(cfg.Size, x0, y0, x1, y1)

	it := h.ITape(pools)
	iv, trace := it.Eval(box)

	switch {
	case iv.Outside():
		return // pixels stay at mode's empty default
	case iv.Inside():
		mode.FillTile(x0, y0, x1, y1, level)
		return
	}

	child := h
	if !shape.TraceIsEmpty(trace) {
		child = h.Simplify(trace, workspace, pools)
	}

	if level+1 < cfg.Tiles.Len() {
		next := cfg.Tiles.At(level + 1)
		sub := cfg.Tiles.SubTiles(level)
		// Row-major sub-tile visit order; affects only cache behavior
		// (spec.md §4.3).
		for j := 0; j < sub; j++ {
			for i := 0; i < sub; i++ {
				recurse(child, cfg, x0+i*next, y0+j*next, next, level+1, mode, pools, workspace)
			}
		}
		return
	}

	evalLeaf(child, cfg, x0, y0, tileSize, level, mode, pools)
}

func evalLeaf(h *render.Handle, cfg Config, x0, y0, tileSize, level int, mode rendermode.Mode2D, pools *render.Pools) {
	n := tileSize * tileSize
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	type coord struct{ x, y int }
	coords := make([]coord, 0, n)

	for y := y0; y < y0+tileSize; y++ {
		for x := x0; x < x0+tileSize; x++ {
			p := cfg.View.PixelCenter(cfg.Size, x, y)
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			coords = append(coords, coord{x, y})
		}
	}

	if mode.NeedsGradient() {
		gt := h.GTape(pools)
		grads := gt.Eval(xs, ys, nil)
		ft := h.FTape(pools)
		fs := ft.Eval(xs, ys, nil)
		for i, c := range coords {
			mode.SetPixelGrad(c.x, c.y, fs[i], grads[i], level)
		}
		return
	}

	ft := h.FTape(pools)
	fs := ft.Eval(xs, ys, nil)
	for i, c := range coords {
		mode.SetPixel(c.x, c.y, fs[i], level)
	}
}
