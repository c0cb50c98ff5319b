package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// LocalAABB is the bounding box in the shape's own frame
	LocalAABB() AABB
	// Support returns the furthest point of the shape along direction, both
	// expressed in the shape's own frame
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	// The 8 corners of the box in local space
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	// Transform the first corner to seed min/max
	worldCorner := transform.TransformPoint(corners[0])
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.TransformPoint(corners[i])

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) LocalAABB() AABB {
	return AABB{Min: b.HalfExtents.Mul(-1), Max: b.HalfExtents}
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		sign(direction.X()) * b.HalfExtents.X(),
		sign(direction.Y()) * b.HalfExtents.Y(),
		sign(direction.Z()) * b.HalfExtents.Z(),
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) LocalAABB() AABB {
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: radiusVec.Mul(-1), Max: radiusVec}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() == 0 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return direction.Normalize().Mul(s.Radius)
}


// Volume is a shape placed in world space
type Volume struct {
	Shape     ShapeInterface
	Transform Transform
}

// SupportWorld returns the furthest world point of the volume along a world direction
func (v Volume) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	local := v.Transform.orientation().Conjugate().Rotate(direction)
	return v.Transform.TransformPoint(v.Shape.Support(local))
}

func (v Volume) Center() mgl64.Vec3 {
	return v.Transform.Position
}

// Bounds returns the world bounds of the volume, leaving the shape's cached bounds untouched
func (v Volume) Bounds() AABB {
	return v.Shape.LocalAABB().Transformed(v.Transform)
}
