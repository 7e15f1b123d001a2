package render

// TileSizes is a non-empty, descending, divisibility-chained list of tile
// edge lengths: sizes[i-1] > sizes[i] and sizes[i-1] % sizes[i] == 0 for
// every i>0. The divisibility chain guarantees a tile at level k always
// contains an integer number of tiles at level k+1, so the recursion never
// needs anything but integer arithmetic.
type TileSizes struct {
	sizes []int
}

// NewTileSizes validates sizes and returns a TileSizes wrapping a private
// copy of it.
func NewTileSizes(sizes []int) (*TileSizes, error) {
	if len(sizes) == 0 {
		return nil, &TileSizeError{Kind: EmptyTileSizes}
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i-1] <= sizes[i] {
			return nil, &TileSizeError{Kind: BadTileOrder, A: sizes[i-1], B: sizes[i]}
		}
		if sizes[i-1]%sizes[i] != 0 {
			return nil, &TileSizeError{Kind: BadTileSize, A: sizes[i-1], B: sizes[i]}
		}
	}
	cp := make([]int, len(sizes))
	copy(cp, sizes)
	return &TileSizes{sizes: cp}, nil
}

// Len returns the number of tile levels.
func (t *TileSizes) Len() int { return len(t.sizes) }

// At returns the tile size at level i (0 = root/largest).
func (t *TileSizes) At(i int) int { return t.sizes[i] }

// Last returns the smallest (leaf) tile size.
func (t *TileSizes) Last() int { return t.sizes[len(t.sizes)-1] }

// Root returns the largest (root) tile size.
func (t *TileSizes) Root() int { return t.sizes[0] }

// SubTiles returns how many level-(k+1) tiles tile a single level-k tile
// along one axis.
func (t *TileSizes) SubTiles(k int) int {
	return t.sizes[k] / t.sizes[k+1]
}

// PixelOffset returns the data offset of a global pixel position within its
// root tile's local buffer.
func (t *TileSizes) PixelOffset(x, y int) int {
	s0 := t.sizes[0]
	return (x % s0) + (y%s0)*s0
}
