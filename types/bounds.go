package types

import "github.com/chewxy/math32"

const (
	// Tolerance used when comparing floats for (approximate) equality.
	floatCmpEpsilon float32 = 1e-5
)

// Check whether two floats are equal allowing for floating point error. The
// tolerance scales with the magnitude of the compared values.
func ApproxEqual(a, b float32) bool {
	scale := math32.Max(1, math32.Max(math32.Abs(a), math32.Abs(b)))
	return math32.Abs(a-b) <= floatCmpEpsilon*scale
}

// Check whether a float is approximately zero.
func ApproxZero(v float32) bool {
	return math32.Abs(v) <= floatCmpEpsilon
}

// An axis-aligned bounding box described by its center and half-extents.
type Bounds struct {
	Center  Vec3
	Extents Vec3
}

// Create bounds from a center point and a full side length vector.
func NewBounds(center, size Vec3) Bounds {
	return Bounds{Center: center, Extents: size.Mul(0.5)}
}

// Create bounds from min and max points.
func BoundsFromMinMax(min, max Vec3) Bounds {
	return Bounds{
		Center:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

// Get min point.
func (b Bounds) Min() Vec3 {
	return b.Center.Sub(b.Extents)
}

// Get max point.
func (b Bounds) Max() Vec3 {
	return b.Center.Add(b.Extents)
}

// Get the side lengths.
func (b Bounds) Size() Vec3 {
	return b.Extents.Mul(2)
}

// Get the length of the longest side.
func (b Bounds) MaxSide() float32 {
	return b.Size().MaxComponent()
}

// Returns true if the box has no volume along any of its diagonals.
func (b Bounds) IsDegenerate() bool {
	return ApproxZero(b.Size().Len())
}

// Check whether a point lies inside the box. Points lying on a face are
// considered to be inside.
func (b Bounds) Contains(p Vec3) bool {
	min, max := b.Min(), b.Max()
	return p[0] >= min[0] && p[0] <= max[0] &&
		p[1] >= min[1] && p[1] <= max[1] &&
		p[2] >= min[2] && p[2] <= max[2]
}

// Grow the box so it also encloses b2.
func (b Bounds) Encapsulate(b2 Bounds) Bounds {
	return BoundsFromMinMax(MinVec3(b.Min(), b2.Min()), MaxVec3(b.Max(), b2.Max()))
}

// Grow the box so it also encloses p.
func (b Bounds) EncapsulatePoint(p Vec3) Bounds {
	return BoundsFromMinMax(MinVec3(b.Min(), p), MaxVec3(b.Max(), p))
}

// Expand the box into a cube. The cube keeps the box min point and uses the
// longest box side as its side length.
func (b Bounds) Cuboid() Bounds {
	extents := Splat(b.MaxSide() * 0.5)
	return Bounds{
		Center:  b.Min().Add(extents),
		Extents: extents,
	}
}

// Check whether the box is a cube.
func (b Bounds) IsCube() bool {
	return ApproxEqual(b.Extents[0], b.Extents[1]) && ApproxEqual(b.Extents[1], b.Extents[2])
}

// Get the 8 box corners. Corners are ordered by x, then y, then z with the
// min side of each axis first.
func (b Bounds) Corners() [8]Vec3 {
	var out [8]Vec3
	min, size := b.Min(), b.Size()
	idx := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				out[idx] = min.Add(size.Scale(XYZ(float32(i), float32(j), float32(k))))
				idx++
			}
		}
	}
	return out
}

// Split the box into a splits x splits x splits grid of equally sized cells.
// Cells are ordered by i (x), then j (y), then k (z) ascending.
func (b Bounds) Subdivide(splits int) []Bounds {
	size := b.Size().Mul(1 / float32(splits))
	min := b.Min()
	out := make([]Bounds, 0, splits*splits*splits)
	for i := 0; i < splits; i++ {
		for j := 0; j < splits; j++ {
			for k := 0; k < splits; k++ {
				center := min.Add(size.Mul(0.5)).Add(size.Scale(XYZ(float32(i), float32(j), float32(k))))
				out = append(out, NewBounds(center, size))
			}
		}
	}
	return out
}

// Transform the box by a scale, rotation and translation and return the
// axis-aligned box enclosing the result.
func (b Bounds) Transform(position Vec3, rotation Quat, scale Vec3) Bounds {
	corners := b.Corners()
	out := Bounds{Center: position.Add(rotation.Rotate(corners[0].Scale(scale)))}
	for _, c := range corners[1:] {
		out = out.EncapsulatePoint(position.Add(rotation.Rotate(c.Scale(scale))))
	}
	return out
}

// Compare two boxes allowing for floating point error.
func (b Bounds) ApproxEqual(b2 Bounds) bool {
	return b.Center.ApproxEqual(b2.Center) && b.Extents.ApproxEqual(b2.Extents)
}
