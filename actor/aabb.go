package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions
func NewAABBFromCenter(center, size mgl64.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the half size on each axis
func (a AABB) Extents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Contains checks if other lies entirely inside the AABB, faces included
func (a AABB) Contains(other AABB) bool {
	return a.ContainsPoint(other.Min) && a.ContainsPoint(other.Max)
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

func (a AABB) Translate(offset mgl64.Vec3) AABB {
	return AABB{Min: a.Min.Add(offset), Max: a.Max.Add(offset)}
}

// Encapsulate grows the AABB to include other
func (a AABB) Encapsulate(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{
			math.Min(a.Min.X(), other.Min.X()),
			math.Min(a.Min.Y(), other.Min.Y()),
			math.Min(a.Min.Z(), other.Min.Z()),
		},
		Max: mgl64.Vec3{
			math.Max(a.Max.X(), other.Max.X()),
			math.Max(a.Max.Y(), other.Max.Y()),
			math.Max(a.Max.Z(), other.Max.Z()),
		},
	}
}

// Transformed returns the AABB enclosing the box a once moved by transform
func (a AABB) Transformed(transform Transform) AABB {
	box := Box{HalfExtents: a.Extents()}
	box.ComputeAABB(Transform{
		Position: transform.TransformPoint(a.Center()),
		Rotation: transform.orientation(),
	})

	return box.GetAABB()
}

// SqrDistanceToPoint returns the squared distance from point to the closest point of the AABB
func (a AABB) SqrDistanceToPoint(point mgl64.Vec3) float64 {
	var d float64
	for i := 0; i < 3; i++ {
		if point[i] < a.Min[i] {
			d += (a.Min[i] - point[i]) * (a.Min[i] - point[i])
		} else if point[i] > a.Max[i] {
			d += (point[i] - a.Max[i]) * (point[i] - a.Max[i])
		}
	}

	return d
}
