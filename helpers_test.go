package dock

import (
	"testing"

	"github.com/akmonengine/dock/actor"
	"github.com/akmonengine/dock/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

const tick = 0.1

type testVehicle struct {
	obj       *actor.Object
	body      *actor.RigidBody
	collider  *actor.Collider
	renderer  *actor.Renderer
	behaviour *actor.Behaviour

	bounds   actor.AABB
	unfreeze bool
	upright  bool
	calls    map[string]int
}

func newTestVehicle(name string, position, size mgl64.Vec3) *testVehicle {
	obj := actor.NewObject(name, actor.Transform{Position: position, Rotation: mgl64.QuatIdent()})
	v := &testVehicle{
		obj:       obj,
		body:      actor.NewRigidBody(),
		collider:  actor.NewCollider(&actor.Box{HalfExtents: size.Mul(0.5)}),
		renderer:  actor.NewRenderer(),
		behaviour: actor.NewBehaviour("engine"),
		bounds:    actor.NewAABBFromCenter(mgl64.Vec3{}, size),
		calls:     make(map[string]int),
	}
	obj.Attach(v.body, v.collider, v.renderer, v.behaviour)

	return v
}

func (v *testVehicle) Object() *actor.Object           { return v.obj }
func (v *testVehicle) LocalBounds() actor.AABB         { return v.bounds }
func (v *testVehicle) ShouldUnfreezeImmediately() bool { return v.unfreeze }
func (v *testVehicle) UndockUpright() bool             { return v.upright }

func (v *testVehicle) BeginDocking()                   { v.calls["BeginDocking"]++ }
func (v *testVehicle) EndDocking()                     { v.calls["EndDocking"]++ }
func (v *testVehicle) OnDockingDone()                  { v.calls["OnDockingDone"]++ }
func (v *testVehicle) UpdateWaitingForBayDoorClose()   { v.calls["UpdateWaitingForBayDoorClose"]++ }
func (v *testVehicle) BeginUndocking()                 { v.calls["BeginUndocking"]++ }
func (v *testVehicle) PrepareUndocking()               { v.calls["PrepareUndocking"]++ }
func (v *testVehicle) EndUndocking()                   { v.calls["EndUndocking"]++ }
func (v *testVehicle) UpdateWaitingForBayDoorOpen()    { v.calls["UpdateWaitingForBayDoorOpen"]++ }
func (v *testVehicle) OnUndockingDone()                { v.calls["OnUndockingDone"]++ }
func (v *testVehicle) RestoreDockedStateFromSaveGame() { v.calls["RestoreDockedStateFromSaveGame"]++ }
func (v *testVehicle) PrepareForSaving()               { v.calls["PrepareForSaving"]++ }

func (v *testVehicle) Components() []actor.Component {
	return actor.ComponentsInChildren[actor.Component](v.obj, func(o *actor.Object) bool { return o.Player })
}

func (v *testVehicle) Tag(tag string)           { v.obj.Tag(tag) }
func (v *testVehicle) Untag(tag string)         { v.obj.Untag(tag) }
func (v *testVehicle) IsTagged(tag string) bool { return v.obj.IsTagged(tag) }

type fakeSpace struct {
	bodies []*actor.RigidBody
}

func (s *fakeSpace) OverlapSphere(center mgl64.Vec3, radius float64) []*actor.RigidBody {
	return s.bodies
}

// testScene is a bay at the origin with a 3x3x5 permitted volume and an
// entrance trigger centered at z=8
type testScene struct {
	bay      *Bay
	root     *actor.Object
	trigger  *actor.Collider
	space    *fakeSpace
	vehicles map[*actor.Object]*testVehicle
}

func testPermitted() actor.AABB {
	return actor.NewAABBFromCenter(mgl64.Vec3{}, mgl64.Vec3{3, 3, 5})
}

func newTestScene(t *testing.T, cfg config.Bay) *testScene {
	t.Helper()

	root := actor.NewObject("bay", actor.NewTransform())
	dockedRoot := actor.NewNode()
	dockedRoot.SetParent(root.Node(), false)

	entrance := actor.NewObject("entrance", actor.Transform{Position: mgl64.Vec3{0, 0, 8}, Rotation: mgl64.QuatIdent()})
	trigger := actor.NewCollider(&actor.Box{HalfExtents: mgl64.Vec3{5, 5, 3}})
	trigger.IsTrigger = true
	entrance.Attach(trigger)
	root.AddChild(entrance)

	s := &testScene{
		root:     root,
		trigger:  trigger,
		space:    &fakeSpace{},
		vehicles: make(map[*actor.Object]*testVehicle),
	}

	layout := Layout{
		Root:       root.Node(),
		DockedRoot: dockedRoot,
		Permitted:  testPermitted(),
		Staging:    actor.Transform{Position: mgl64.Vec3{0, 0, 3}, Rotation: mgl64.QuatIdent()},
		Exit:       actor.Transform{Position: mgl64.Vec3{0, 0, 8}, Rotation: mgl64.QuatIdent()},
	}

	bay, err := NewBay(layout, NewTracker(trigger), s.space, s.resolve, cfg)
	require.NoError(t, err)
	s.bay = bay

	return s
}

func (s *testScene) resolve(o *actor.Object) (Dockable, bool) {
	v, ok := s.vehicles[o]
	return v, ok
}

func (s *testScene) vehicle(name string, position, size mgl64.Vec3) *testVehicle {
	v := newTestVehicle(name, position, size)
	s.vehicles[v.obj] = v
	return v
}

// enter reports the vehicle collider inside the entrance trigger
func (s *testScene) enter(v *testVehicle) {
	s.bay.tracker.OnTriggerEnter(v.collider)
}

func (s *testScene) exit(v *testVehicle) {
	s.bay.tracker.OnTriggerExit(v.collider)
}

// docked registers a vehicle saved as docked, picked up by the first tick
func (s *testScene) docked(name string) *testVehicle {
	v := s.vehicle(name, mgl64.Vec3{0, 20, 0}, mgl64.Vec3{2, 2, 4})
	v.Tag(DockedTag)
	s.space.bodies = append(s.space.bodies, v.body)
	return v
}

func (s *testScene) step(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.bay.Update(tick))
	}
}

// stepUntil ticks until cond holds and returns the number of ticks taken
func (s *testScene) stepUntil(t *testing.T, maxTicks int, cond func() bool) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		require.NoError(t, s.bay.Update(tick))
		if cond() {
			return i
		}
	}
	require.FailNow(t, "condition not reached", "after %d ticks", maxTicks)
	return 0
}

func (s *testScene) tugOf(v *testVehicle) *Tug {
	t, _ := s.bay.TugOf(v.obj)
	return t
}
