package dock

import (
	"math"

	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// DockingFit is an admissible placement of a vehicle inside the bay
type DockingFit struct {
	Dockable Dockable
	// Rotation of the vehicle relative to the docked root
	Rotation mgl64.Quat
	// Offset moves the vehicle origin so that its bounds are centered
	Offset mgl64.Vec3
	// Bounds of the placed vehicle, in the docked root frame
	Bounds actor.AABB
}

// Placement returns where the vehicle sits once docked, local to the docked root
func (f DockingFit) Placement(permitted actor.AABB) Placement {
	return Placement{
		Position: permitted.Center().Add(f.Offset),
		Rotation: f.Rotation,
		Locality: Local,
	}
}

// fitCandidate is one orientation tried by fitBounds
type fitCandidate struct {
	rotation mgl64.Quat
	size     func(mgl64.Vec3) mgl64.Vec3
}

var fitCandidates = [...]fitCandidate{
	{
		rotation: mgl64.QuatIdent(),
		size:     func(s mgl64.Vec3) mgl64.Vec3 { return s },
	},
	{
		// Lying on its side: local Y becomes Z
		rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}),
		size:     func(s mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{s.X(), s.Z(), s.Y()} },
	},
}

// FindBestFit tries the upright orientation, then a quarter turn about X.
// It reports false when the vehicle fits neither way.
func FindBestFit(d Dockable, permitted actor.AABB) (DockingFit, bool) {
	rotation, offset, bounds, ok := fitBounds(d.LocalBounds(), permitted)
	if !ok {
		return DockingFit{}, false
	}

	return DockingFit{
		Dockable: d,
		Rotation: rotation,
		Offset:   offset,
		Bounds:   bounds,
	}, true
}

func fitBounds(local, permitted actor.AABB) (mgl64.Quat, mgl64.Vec3, actor.AABB, bool) {
	for _, candidate := range fitCandidates {
		bounds := actor.NewAABBFromCenter(permitted.Center(), candidate.size(local.Size()))
		if !permitted.Contains(bounds) {
			continue
		}

		offset := candidate.rotation.Rotate(local.Center().Mul(-1))
		return candidate.rotation, offset, bounds, true
	}

	return mgl64.Quat{}, mgl64.Vec3{}, actor.AABB{}, false
}

// LocalBoundsOf encloses the solid colliders of o's subtree, in o's own frame.
// Triggers and embedded players are left out. It reports false when o has
// no solid collider.
func LocalBoundsOf(o *actor.Object) (actor.AABB, bool) {
	var (
		bounds actor.AABB
		found  bool
	)

	inverse := o.Node().World().Inverse()
	for _, c := range actor.ComponentsInChildren[*actor.Collider](o, isPlayer) {
		if c.IsTrigger {
			continue
		}

		local := inverse.Mul(c.Object().Node().World()).Mul(c.Offset)
		box := c.Shape.LocalAABB().Transformed(local)
		if !found {
			bounds, found = box, true
			continue
		}
		bounds = bounds.Encapsulate(box)
	}

	return bounds, found
}

func isPlayer(o *actor.Object) bool {
	return o.Player
}
