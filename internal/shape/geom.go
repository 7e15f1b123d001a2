package shape

// Vec3 is a point or vector in evaluator space. 2D evaluation pins Z to 0.
type Vec3 struct {
	X, Y, Z float64
}

// Gradient3 is ∇f at a point.
type Gradient3 struct {
	DX, DY, DZ float64
}

// Interval bounds f's value over some region: lo <= f(p) <= hi for every p
// in that region.
type Interval struct {
	Lo, Hi float64
}

// Outside reports whether the interval proves every point in the region is
// outside the surface (f>0 everywhere). Strict on both sides, per the
// tightened interpretation of the ambiguous-at-boundary open question.
func (iv Interval) Outside() bool { return iv.Lo > 0 }

// Inside reports whether the interval proves every point in the region is
// strictly inside the surface (f<0 everywhere). Strict on both sides, per
// the tightened interpretation of the ambiguous-at-boundary open question.
func (iv Interval) Inside() bool { return iv.Hi < 0 }

// AABB3 is an axis-aligned bounding box in evaluator space. 2D tiles use a
// box with Min.Z == Max.Z == 0.
type AABB3 struct {
	Min, Max Vec3
}

// Union returns the smallest AABB3 containing both a and b.
func (a AABB3) Union(b AABB3) AABB3 {
	return AABB3{
		Min: Vec3{min(a.Min.X, b.Min.X), min(a.Min.Y, b.Min.Y), min(a.Min.Z, b.Min.Z)},
		Max: Vec3{max(a.Max.X, b.Max.X), max(a.Max.Y, b.Max.Y), max(a.Max.Z, b.Max.Z)},
	}
}
