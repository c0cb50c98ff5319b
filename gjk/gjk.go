// Package gjk tests two convex volumes for overlap with the Gilbert-Johnson-Keerthi
// algorithm: the volumes overlap when their Minkowski difference contains the origin.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Convex is any volume that can answer support queries in world space
type Convex interface {
	SupportWorld(direction mgl64.Vec3) mgl64.Vec3
	Center() mgl64.Vec3
}

// Simplex holds 1 to 4 points of the Minkowski difference, most recent last
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the support point of A - B along direction
func MinkowskiSupport(a, b Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.SupportWorld(direction).Sub(b.SupportWorld(direction.Mul(-1)))
}

// Intersects runs GJK with a pooled simplex
func Intersects(a, b Convex) bool {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)
	simplex.Reset()

	return GJK(a, b, simplex)
}

// GJK reports whether a and b overlap. Touching counts as overlapping.
// The simplex is modified in place.
func GJK(a, b Convex, simplex *Simplex) bool {
	direction := b.Center().Sub(a.Center())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.Points[0] = MinkowskiSupport(a, b, direction)
	simplex.Count = 1

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	const maxIterations = 32
	for i := 0; i < maxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)

		// the new point does not pass the origin: separated
		if newPoint.Dot(direction) <= 0 {
			return false
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.Count++

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	return false
}

// containsOrigin reduces the simplex to the feature closest to the origin and
// updates the search direction. Only a tetrahedron can contain the origin.
func containsOrigin(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	// Voronoi region of A
	if ab.Dot(ao) <= 0 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	abPerp := ab.Cross(ao).Cross(ab)
	if abPerp.LenSqr() < 1e-8 {
		// origin on the segment
		return true
	}

	*direction = abPerp
	return false
}

func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)

	// colinear: keep the most recent edge
	if abc.LenSqr() < 1e-10 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return line(simplex, direction)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if abc.Cross(ac).Dot(ao) > 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		// below the face: flip the winding
		simplex.Points[0] = a
		simplex.Points[1] = c
		simplex.Points[2] = b
		simplex.Count = 3
		*direction = abc.Mul(-1)
	}

	return false
}

func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// face normals point away from the opposite vertex
	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		return reduce(simplex, direction, c, b, a)
	}

	switch {
	case abc.Dot(ao) > 0:
		return reduce(simplex, direction, c, b, a)
	case acd.Dot(ao) > 0:
		return reduce(simplex, direction, d, c, a)
	case adb.Dot(ao) > 0:
		return reduce(simplex, direction, b, d, a)
	}

	return true
}

func reduce(simplex *Simplex, direction *mgl64.Vec3, p0, p1, p2 mgl64.Vec3) bool {
	simplex.Points[0] = p0
	simplex.Points[1] = p1
	simplex.Points[2] = p2
	simplex.Count = 3
	return triangle(simplex, direction)
}
