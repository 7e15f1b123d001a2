// Package concurrency implements the renderer's orchestrator: a static
// partition of the top-level tile grid across worker goroutines, joined
// with golang.org/x/sync/errgroup (spec.md §4.7, §5).
//
// Workers are independent — no work-stealing, no shared mutable state.
// Each worker clones the root RenderHandle (sharing tapes by reference,
// dropping the simplification cache) and owns a private Pools and
// Workspace. 2D root tiles are disjoint, so workers write straight into
// the shared output mode; 3D workers render into a local buffer that the
// orchestrator merges into the final heightmap by per-pixel max once every
// worker has joined.
package concurrency

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mbrt/isosurf/internal/render"
	"github.com/mbrt/isosurf/internal/render2d"
	"github.com/mbrt/isosurf/internal/render3d"
	"github.com/mbrt/isosurf/internal/rendermode"
	"github.com/mbrt/isosurf/internal/shape"
)

// NewWorkspace is supplied by the caller because Workspace's concrete type
// depends on the Shape implementation in use; the orchestrator only needs
// one instance per worker.
type NewWorkspace func() shape.Workspace

// Render2D partitions the output image's root-tile grid across
// threads.Resolve() workers and renders mode in place. root must not yet
// have built any tapes shared with another in-flight render.
func Render2D(ctx context.Context, root *render.Handle, cfg render2d.Config, threads render.ThreadCount, mode rendermode.Mode2D, newWorkspace NewWorkspace) error {
	rootSize := cfg.Tiles.Root()
	if cfg.Size.Width%rootSize != 0 || cfg.Size.Height%rootSize != 0 {
		return fmt.Errorf("concurrency: image size %dx%d is not a multiple of the root tile size %d", cfg.Size.Width, cfg.Size.Height, rootSize)
	}

	var origins [][2]int
	for y := 0; y < cfg.Size.Height; y += rootSize {
		for x := 0; x < cfg.Size.Width; x += rootSize {
			origins = append(origins, [2]int{x, y})
		}
	}

	n := workerCount(threads, len(origins))
	if cfg.Verbose {
		log.Printf("concurrency: 2D render %dx%d, %d root tiles, %d workers", cfg.Size.Width, cfg.Size.Height, len(origins), n)
	}
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < n; w++ {
		w := w
		g.Go(func() (err error) {
			defer recoverToErr(&err)

			worker := root.Clone()
			pools := &render.Pools{}
			ws := newWorkspace()
			// Deferred calls run last-in first-out: Recycle runs before the
			// log line, so the logged pool depths are those after recycling.
			defer func() {
				if cfg.Verbose {
					log.Printf("concurrency: worker %d done, pools after recycle: shape=%d tape=%d", w, pools.ShapeStorageLen(), pools.TapeStorageLen())
				}
			}()
			defer worker.Recycle(pools)

			for i := w; i < len(origins); i += n {
				if err := gctx.Err(); err != nil {
					return err
				}
				o := origins[i]
				if cfg.Verbose {
					log.Printf("concurrency: worker %d rendering root tile (%d,%d)", w, o[0], o[1])
				}
				render2d.RenderTile(worker, cfg, o[0], o[1], mode, pools, ws)
			}
			return nil
		})
	}
	return g.Wait()
}

// recoverToErr converts a panic in the calling goroutine into an error,
// so a single worker's panic fails the whole render (via errgroup) instead
// of crashing the process with a partially-written image.
func recoverToErr(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("concurrency: worker panicked: %v", r)
	}
}

// Render3D partitions the output volume's top-level XY grid of root tiles
// across threads.Resolve() workers. Root tiles span the full Z depth, per
// spec.md §4.7 ("the top-level XY grid of root tiles is partitioned"), so
// Size.Depth must equal the configured root tile size.
func Render3D(ctx context.Context, root *render.Handle, cfg render3d.Config, threads render.ThreadCount, mode rendermode.Mode3D, newWorkspace NewWorkspace) error {
	rootSize := cfg.Tiles.Root()
	if cfg.Size.Width%rootSize != 0 || cfg.Size.Height%rootSize != 0 {
		return fmt.Errorf("concurrency: voxel grid %dx%dx%d is not a multiple of the root tile size %d in X/Y", cfg.Size.Width, cfg.Size.Height, cfg.Size.Depth, rootSize)
	}
	if cfg.Size.Depth != rootSize {
		return fmt.Errorf("concurrency: voxel grid depth %d must equal the root tile size %d (root tiles span the full Z extent)", cfg.Size.Depth, rootSize)
	}

	var origins [][2]int
	for y := 0; y < cfg.Size.Height; y += rootSize {
		for x := 0; x < cfg.Size.Width; x += rootSize {
			origins = append(origins, [2]int{x, y})
		}
	}

	n := workerCount(threads, len(origins))
	if cfg.Verbose {
		log.Printf("concurrency: 3D render %dx%dx%d, %d root tiles, %d workers", cfg.Size.Width, cfg.Size.Height, cfg.Size.Depth, len(origins), n)
	}
	g, gctx := errgroup.WithContext(ctx)
	var mergeMu sync.Mutex

	for w := 0; w < n; w++ {
		w := w
		g.Go(func() (err error) {
			defer recoverToErr(&err)

			worker := root.Clone()
			pools := &render.Pools{}
			ws := newWorkspace()
			// Deferred calls run last-in first-out: Recycle runs before the
			// log line, so the logged pool depths are those after recycling.
			defer func() {
				if cfg.Verbose {
					log.Printf("concurrency: worker %d done, pools after recycle: shape=%d tape=%d", w, pools.ShapeStorageLen(), pools.TapeStorageLen())
				}
			}()
			defer worker.Recycle(pools)

			for i := w; i < len(origins); i += n {
				if err := gctx.Err(); err != nil {
					return err
				}
				o := origins[i]
				if cfg.Verbose {
					log.Printf("concurrency: worker %d rendering root tile (%d,%d)", w, o[0], o[1])
				}
				// local is sized to exactly this root tile's footprint, so
				// it must be addressed in tile-local coordinates; offX/offY
				// tell RenderTile where that local origin sits in world
				// space, so the view transform still sees absolute
				// coordinates while mode.* calls land in [0,rootSize).
				local := mode.NewLocal(rootSize, rootSize)
				render3d.RenderTile(worker, cfg, o[0], o[1], 0, o[0], o[1], local, pools, ws)

				mergeMu.Lock()
				mode.Merge(local, o[0], o[1])
				mergeMu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

func workerCount(threads render.ThreadCount, units int) int {
	n := threads.Resolve()
	if units > 0 && n > units {
		n = units
	}
	if n < 1 {
		n = 1
	}
	return n
}
