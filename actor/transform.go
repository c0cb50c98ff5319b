package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// orientation returns the rotation, treating the zero quaternion as identity
func (t Transform) orientation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

// Mul composes t with a child transform expressed in t's frame
func (t Transform) Mul(child Transform) Transform {
	rotation := t.orientation()

	return Transform{
		Position: t.Position.Add(rotation.Rotate(child.Position)),
		Rotation: rotation.Mul(child.orientation()).Normalize(),
	}
}

// Inverse returns the transform mapping t's frame back to its parent frame
func (t Transform) Inverse() Transform {
	inverse := t.orientation().Conjugate()

	return Transform{
		Position: inverse.Rotate(t.Position).Mul(-1),
		Rotation: inverse,
	}
}

// TransformPoint maps a point from t's local frame to the parent frame
func (t Transform) TransformPoint(point mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.orientation().Rotate(point))
}

// InverseTransformPoint maps a point from the parent frame into t's local frame
func (t Transform) InverseTransformPoint(point mgl64.Vec3) mgl64.Vec3 {
	return t.orientation().Conjugate().Rotate(point.Sub(t.Position))
}

// ApproxEqual compares positions and orientations within epsilon.
// q and -q describe the same orientation.
func (t Transform) ApproxEqual(other Transform, epsilon float64) bool {
	if !t.Position.ApproxEqualThreshold(other.Position, epsilon) {
		return false
	}

	a, b := t.orientation(), other.orientation()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return a.ApproxEqualThreshold(b, epsilon)
}
