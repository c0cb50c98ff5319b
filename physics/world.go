package physics

import (
	"github.com/akmonengine/dock/actor"
	"github.com/akmonengine/dock/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// World is a minimal host simulation: bodies move under their own velocity and
// trigger volumes report which colliders overlap them
type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// List of all colliders in the world, triggers included
	Colliders   []*actor.Collider
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events
}

func NewWorld(cellSize float64, numCells int) *World {
	return &World{
		SpatialGrid: NewSpatialGrid(cellSize, numCells),
		Workers:     DEFAULT_WORKERS,
		Events:      NewEvents(),
	}
}

// Add registers every rigidbody and collider in the object's subtree
func (w *World) Add(o *actor.Object) {
	w.Bodies = append(w.Bodies, actor.ComponentsInChildren[*actor.RigidBody](o, nil)...)
	w.Colliders = append(w.Colliders, actor.ComponentsInChildren[*actor.Collider](o, nil)...)
}

// Remove unregisters the object's subtree. Pairs involving its colliders are
// dropped silently, no exit event is sent.
func (w *World) Remove(o *actor.Object) {
	for _, rb := range actor.ComponentsInChildren[*actor.RigidBody](o, nil) {
		w.RemoveBody(rb)
	}
	for _, c := range actor.ComponentsInChildren[*actor.Collider](o, nil) {
		w.RemoveCollider(c)
	}
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}
}

// RemoveCollider removes a collider from the world
func (w *World) RemoveCollider(collider *actor.Collider) {
	k := -1
	for i, c := range w.Colliders {
		if c == collider {
			k = i
			break
		}
	}

	if k != -1 {
		w.Colliders = append(w.Colliders[:k], w.Colliders[k+1:]...)
	}
	w.Events.forget(collider)
}

func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	// Phase 1: drop what was destroyed since last step
	w.prune()

	// Phase 2: move bodies
	w.integrate(dt)

	// Phase 3: bounds, then broad phase restricted to triggers
	w.computeBounds()
	w.Events.recordOverlaps(BroadPhase(w.SpatialGrid, w.Colliders))

	w.Events.flush()
}

// OverlapSphere returns the distinct rigidbodies with at least one enabled
// collider within radius of center
func (w *World) OverlapSphere(center mgl64.Vec3, radius float64) []*actor.RigidBody {
	query := actor.NewAABBFromCenter(center, mgl64.Vec3{2 * radius, 2 * radius, 2 * radius})
	sqrRadius := radius * radius

	var found []*actor.RigidBody
	seen := make(map[*actor.RigidBody]bool)
	for _, c := range w.Colliders {
		if !c.Valid() || !c.Enabled || c.IsTrigger {
			continue
		}

		bounds := c.ComputeBounds()
		if !bounds.Overlaps(query) || bounds.SqrDistanceToPoint(center) > sqrRadius {
			continue
		}

		if body := c.Body(); body != nil && !seen[body] {
			seen[body] = true
			found = append(found, body)
		}
	}

	return found
}

// OverlapVolume returns the enabled solid colliders intersecting volume.
// Colliders for which ignore returns true are skipped.
func (w *World) OverlapVolume(volume actor.Volume, ignore func(*actor.Collider) bool) []*actor.Collider {
	query := volume.Bounds()

	var found []*actor.Collider
	for _, c := range w.Colliders {
		if !c.Valid() || !c.Enabled || c.IsTrigger {
			continue
		}
		if ignore != nil && ignore(c) {
			continue
		}

		// broad phase on the bounds, narrow phase with GJK
		if !c.ComputeBounds().Overlaps(query) {
			continue
		}
		if gjk.Intersects(volume, c.Volume()) {
			found = append(found, c)
		}
	}

	return found
}

func (w *World) prune() {
	n := 0
	for _, b := range w.Bodies {
		if b.Object().Valid() {
			w.Bodies[n] = b
			n++
		}
	}
	w.Bodies = w.Bodies[:n]

	n = 0
	for _, c := range w.Colliders {
		if c.Valid() {
			w.Colliders[n] = c
			n++
		}
	}
	w.Colliders = w.Colliders[:n]
}

func (w *World) integrate(dt float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(dt)
	})
}

func (w *World) computeBounds() {
	task(w.Workers, w.Colliders, func(collider *actor.Collider) {
		collider.ComputeBounds()
	})
}

// BroadPhase inserts every collider in the grid and returns the overlapping trigger pairs
func BroadPhase(spatialGrid *SpatialGrid, colliders []*actor.Collider) []Pair {
	spatialGrid.Clear()
	for i, collider := range colliders {
		if collider.Enabled {
			spatialGrid.Insert(i, collider.Bounds())
		}
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(colliders)
}
