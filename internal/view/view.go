// Package view holds the 2D/3D render windows: output resolution plus an
// affine view transform (scale + translation, optionally rotation for 3D)
// mapping normalized device coordinates to evaluator (world) space.
package view

import "github.com/mbrt/isosurf/internal/shape"

// ImageSize is a 2D output resolution in pixels.
type ImageSize struct {
	Width, Height int
}

// VoxelSize is a 3D output resolution in voxels.
type VoxelSize struct {
	Width, Height, Depth int
}

// View2 is the 2D affine view transform: world = ndc*Scale + Offset, where
// ndc is the pixel index remapped to [-1, 1) per axis.
type View2 struct {
	Scale  float64
	Offset shape.Vec3 // Z is unused
}

// Identity2 is the default view: the image maps directly onto [-1,1]^2.
func Identity2() View2 { return View2{Scale: 1} }

// PixelToNDC maps a pixel-space coordinate (may be fractional, e.g. a pixel
// center) to normalized device coordinates given the axis length in pixels.
func PixelToNDC(coord float64, axisLen int) float64 {
	return 2*coord/float64(axisLen) - 1
}

// ToWorld maps a point already in normalized device coordinates into world
// space under this view.
func (v View2) ToWorld(ndc shape.Vec3) shape.Vec3 {
	return shape.Vec3{
		X: ndc.X*v.Scale + v.Offset.X,
		Y: ndc.Y*v.Scale + v.Offset.Y,
	}
}

// TileAABB returns the world-space AABB of the pixel rectangle
// [x0,x1) x [y0,y1) within an image of the given size.
func (v View2) TileAABB(size ImageSize, x0, y0, x1, y1 int) shape.AABB3 {
	loNDC := shape.Vec3{X: PixelToNDC(float64(x0), size.Width), Y: PixelToNDC(float64(y0), size.Height)}
	hiNDC := shape.Vec3{X: PixelToNDC(float64(x1), size.Width), Y: PixelToNDC(float64(y1), size.Height)}
	lo := v.ToWorld(loNDC)
	hi := v.ToWorld(hiNDC)
	return shape.AABB3{
		Min: shape.Vec3{X: min(lo.X, hi.X), Y: min(lo.Y, hi.Y)},
		Max: shape.Vec3{X: max(lo.X, hi.X), Y: max(lo.Y, hi.Y)},
	}
}

// PixelCenter returns the world-space point at the center of pixel (x,y).
func (v View2) PixelCenter(size ImageSize, x, y int) shape.Vec3 {
	ndc := shape.Vec3{
		X: PixelToNDC(float64(x)+0.5, size.Width),
		Y: PixelToNDC(float64(y)+0.5, size.Height),
	}
	return v.ToWorld(ndc)
}

// Mat3 is a row-major 3x3 matrix, used for View3's optional rotation.
type Mat3 [3][3]float64

// Identity3x3 is the identity rotation.
func Identity3x3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (m Mat3) apply(v shape.Vec3) shape.Vec3 {
	return shape.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// View3 is the 3D affine view transform: world = Rotation*ndc*Scale +
// Offset. The zero Mat3 is *not* the identity: Identity3 sets Rotation to
// Identity3x3(), and a View3 built any other way must set Rotation
// explicitly, even when no rotation is wanted.
type View3 struct {
	Scale    float64
	Offset   shape.Vec3
	Rotation Mat3
}

// Identity3 is the default view: the voxel grid maps directly onto
// [-1,1]^3 with no rotation.
func Identity3() View3 {
	return View3{Scale: 1, Rotation: Identity3x3()}
}

// ToWorld maps a point in normalized device coordinates into world space.
func (v View3) ToWorld(ndc shape.Vec3) shape.Vec3 {
	r := v.Rotation.apply(ndc)
	return shape.Vec3{
		X: r.X*v.Scale + v.Offset.X,
		Y: r.Y*v.Scale + v.Offset.Y,
		Z: r.Z*v.Scale + v.Offset.Z,
	}
}

// TileAABB returns the world-space AABB of the voxel box
// [x0,x1) x [y0,y1) x [z0,z1) within a voxel grid of the given size.
//
// Under a non-identity rotation the true image of a box is not
// axis-aligned; this returns the axis-aligned bounding box of the 8
// transformed corners, a conservative (still sound) bound for interval
// arithmetic.
func (v View3) TileAABB(size VoxelSize, x0, y0, z0, x1, y1, z1 int) shape.AABB3 {
	lo := shape.Vec3{X: PixelToNDC(float64(x0), size.Width), Y: PixelToNDC(float64(y0), size.Height), Z: PixelToNDC(float64(z0), size.Depth)}
	hi := shape.Vec3{X: PixelToNDC(float64(x1), size.Width), Y: PixelToNDC(float64(y1), size.Height), Z: PixelToNDC(float64(z1), size.Depth)}

	corners := [8]shape.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z}, {X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z}, {X: hi.X, Y: hi.Y, Z: hi.Z},
	}

	box := shape.AABB3{Min: v.ToWorld(corners[0]), Max: v.ToWorld(corners[0])}
	for _, c := range corners[1:] {
		w := v.ToWorld(c)
		box = box.Union(shape.AABB3{Min: w, Max: w})
	}
	return box
}

// VoxelCenter returns the world-space point at the center of voxel (x,y,z).
func (v View3) VoxelCenter(size VoxelSize, x, y, z int) shape.Vec3 {
	ndc := shape.Vec3{
		X: PixelToNDC(float64(x)+0.5, size.Width),
		Y: PixelToNDC(float64(y)+0.5, size.Height),
		Z: PixelToNDC(float64(z)+0.5, size.Depth),
	}
	return v.ToWorld(ndc)
}
