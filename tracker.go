package dock

import (
	"math"

	"github.com/akmonengine/dock/actor"
	"github.com/akmonengine/dock/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Tracker keeps the colliders currently inside a trigger volume, in the order
// they entered. Destroyed colliders are dropped lazily on the next query.
type Tracker struct {
	Trigger *actor.Collider

	touching []*actor.Collider
}

func NewTracker(trigger *actor.Collider) *Tracker {
	return &Tracker{Trigger: trigger}
}

// Listen feeds the tracker from a world's trigger events
func (t *Tracker) Listen(events *physics.Events) {
	events.Subscribe(physics.TRIGGER_ENTER, func(event physics.Event) {
		if other, ok := t.other(event); ok {
			t.OnTriggerEnter(other)
		}
	})
	events.Subscribe(physics.TRIGGER_EXIT, func(event physics.Event) {
		if other, ok := t.other(event); ok {
			t.OnTriggerExit(other)
		}
	})
}

func (t *Tracker) other(event physics.Event) (*actor.Collider, bool) {
	a, b := event.Colliders()
	switch t.Trigger {
	case a:
		return b, true
	case b:
		return a, true
	}
	return nil, false
}

func (t *Tracker) OnTriggerEnter(other *actor.Collider) {
	for _, c := range t.touching {
		if c == other {
			return
		}
	}
	t.touching = append(t.touching, other)
}

func (t *Tracker) OnTriggerExit(other *actor.Collider) {
	for i, c := range t.touching {
		if c == other {
			t.touching = append(t.touching[:i], t.touching[i+1:]...)
			return
		}
	}
}

// CurrentlyTouching returns the valid colliders inside the trigger
func (t *Tracker) CurrentlyTouching() []*actor.Collider {
	n := 0
	for _, c := range t.touching {
		if c.Valid() {
			t.touching[n] = c
			n++
		}
	}
	clear(t.touching[n:])
	t.touching = t.touching[:n]

	return t.touching
}

// IsTracked reports whether o has a collider inside the trigger, either its
// own or one attached to its rigidbody from a child object
func (t *Tracker) IsTracked(o *actor.Object) bool {
	for _, c := range t.CurrentlyTouching() {
		if c.Object() == o {
			return true
		}
		if body := c.Body(); body != nil && body.Object() == o {
			return true
		}
	}
	return false
}

// Position is the reference point used to rank candidates
func (t *Tracker) Position() mgl64.Vec3 {
	return t.Trigger.Object().Position()
}

// Bounds returns the current world bounds of the trigger volume
func (t *Tracker) Bounds() actor.AABB {
	return t.Trigger.ComputeBounds()
}

// ClosestEnabledNonKinematic returns the candidate of the nearest enabled
// collider attached to a dynamic rigidbody for which pick succeeds.
// On an exact distance tie the collider that entered first wins.
func ClosestEnabledNonKinematic[T any](t *Tracker, pick func(c *actor.Collider) (T, bool)) (T, *actor.Collider, bool) {
	var (
		best         T
		bestCollider *actor.Collider
		bestDistance = math.Inf(1)
	)

	origin := t.Position()
	for _, c := range t.CurrentlyTouching() {
		if !c.Enabled {
			continue
		}
		body := c.Body()
		if body == nil || body.Kinematic {
			continue
		}

		delta := c.Object().Position().Sub(origin)
		distance := delta.Dot(delta)
		if distance >= bestDistance {
			continue
		}

		candidate, ok := pick(c)
		if !ok {
			continue
		}
		best, bestCollider, bestDistance = candidate, c, distance
	}

	return best, bestCollider, bestCollider != nil
}
