package scene

import "github.com/achilleasa/autolod/types"

// Transform describes the placement of an object relative to its parent.
type Transform struct {
	Position types.Vec3
	Rotation types.Quat
	Scale    types.Vec3
}

// Create an identity transform.
func IdentityTransform() Transform {
	return Transform{
		Rotation: types.QuatIdent(),
		Scale:    types.Vec3{1, 1, 1},
	}
}

// Create a transform that only translates.
func Translation(p types.Vec3) Transform {
	t := IdentityTransform()
	t.Position = p
	return t
}

// Apply the transform to a point.
func (t Transform) Apply(p types.Vec3) types.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(p.Scale(t.Scale)))
}

// Apply the rotation part of the transform to a direction.
func (t Transform) ApplyDirection(d types.Vec3) types.Vec3 {
	return t.Rotation.Rotate(d)
}

// Map a world point back into the space described by the transform.
func (t Transform) InverseApply(p types.Vec3) types.Vec3 {
	local := t.Rotation.Inverse().Rotate(p.Sub(t.Position))
	return types.XYZ(local[0]/t.Scale[0], local[1]/t.Scale[1], local[2]/t.Scale[2])
}

// Map a world direction back into the space described by the transform.
func (t Transform) InverseApplyDirection(d types.Vec3) types.Vec3 {
	return t.Rotation.Inverse().Rotate(d)
}

// Concatenate a child transform to this one. Non-uniform scale combined with
// rotation is approximated by component-wise scaling (no skew).
func (t Transform) Combine(child Transform) Transform {
	return Transform{
		Position: t.Apply(child.Position),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    t.Scale.Scale(child.Scale),
	}
}

// Compare two transforms allowing for floating point error.
func (t Transform) ApproxEqual(t2 Transform) bool {
	return t.Position.ApproxEqual(t2.Position) &&
		t.Rotation.ApproxEqual(t2.Rotation) &&
		t.Scale.ApproxEqual(t2.Scale)
}
