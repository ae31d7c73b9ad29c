package types

import "github.com/chewxy/math32"

// A rotation quaternion.
type Quat struct {
	V Vec3
	W float32
}

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat{W: 1.0}
}

// Create a quaternion from an axis vector and an angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin, cos := math32.Sincos(angle * 0.5)
	return Quat{
		V: axis.Normalize().Mul(sin),
		W: cos,
	}
}

// Rotate a vector by the rotation this quaternion represents.
func (q Quat) Rotate(v Vec3) Vec3 {
	cross := q.V.Cross(v)
	// v + 2q_w * (q_v x v) + 2q_v x (q_v x v)
	return v.Add(cross.Mul(2 * q.W)).Add(q.V.Mul(2).Cross(cross))
}

// Combine two rotations; q.Mul(q2) applies q2 first.
func (q Quat) Mul(q2 Quat) Quat {
	return Quat{
		q.V.Cross(q2.V).Add(q2.V.Mul(q.W)).Add(q.V.Mul(q2.W)),
		q.W*q2.W - q.V.Dot(q2.V),
	}
}

// Get the quaternion norm.
func (q Quat) Len() float32 {
	return math32.Sqrt(q.W*q.W + q.V.Dot(q.V))
}

// Normalize the quaternion, returning its versor.
func (q Quat) Normalize() Quat {
	length := q.Len()
	if math32.Abs(1-length) < floatCmpEpsilon {
		return q
	}
	if length == 0 {
		return QuatIdent()
	}
	return Quat{q.V.Mul(1 / length), q.W / length}
}

// Get the inverse rotation.
func (q Quat) Inverse() Quat {
	scaler := 1.0 / (q.V.Dot(q.V) + q.W*q.W)
	return Quat{q.V.Mul(-scaler), q.W * scaler}
}

// Compare two rotations allowing for floating point error.
func (q Quat) ApproxEqual(q2 Quat) bool {
	return q.V.ApproxEqual(q2.V) && ApproxEqual(q.W, q2.W)
}
