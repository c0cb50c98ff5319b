package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Node Hierarchy Tests
// =============================================================================

func TestNodeSetParent_KeepWorld(t *testing.T) {
	bay := NewNode()
	bay.Local = Transform{
		Position: mgl64.Vec3{100, 0, 0},
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}),
	}

	vehicle := NewObject("vehicle", Transform{Position: mgl64.Vec3{95, 2, 3}, Rotation: mgl64.QuatIdent()})
	before := vehicle.Node().World()

	vehicle.Node().SetParent(bay, true)
	if vehicle.Node().Parent() != bay {
		t.Fatalf("parent not set")
	}
	if !vehicle.Node().World().ApproxEqual(before, 1e-9) {
		t.Errorf("world moved: %v, want %v", vehicle.Node().World(), before)
	}
	if len(bay.Children()) != 1 {
		t.Errorf("bay has %d children, want 1", len(bay.Children()))
	}

	vehicle.Node().SetParent(nil, true)
	if vehicle.Node().Parent() != nil || len(bay.Children()) != 0 {
		t.Errorf("detach did not clear the hierarchy")
	}
	if !vehicle.Node().World().ApproxEqual(before, 1e-9) {
		t.Errorf("world moved after detach: %v, want %v", vehicle.Node().World(), before)
	}
}

func TestNodeSetParent_KeepLocal(t *testing.T) {
	root := NewNode()
	root.Local.Position = mgl64.Vec3{0, 10, 0}

	child := NewNode()
	child.Local.Position = mgl64.Vec3{1, 0, 0}
	child.SetParent(root, false)

	if !vec3Equal(child.World().Position, mgl64.Vec3{1, 10, 0}, 1e-12) {
		t.Errorf("World().Position = %v, want [1 10 0]", child.World().Position)
	}
}

func TestNodeIsDescendantOf(t *testing.T) {
	root := NewNode()
	mid := NewNode()
	leaf := NewNode()
	mid.SetParent(root, false)
	leaf.SetParent(mid, false)

	if !leaf.IsDescendantOf(root) || !leaf.IsDescendantOf(mid) {
		t.Errorf("leaf should descend from mid and root")
	}
	if root.IsDescendantOf(leaf) || leaf.IsDescendantOf(leaf) {
		t.Errorf("descendance must be strict and directed")
	}
}

// =============================================================================
// Object and Component Tests
// =============================================================================

func TestObjectDestroy_PropagatesToChildren(t *testing.T) {
	parent := NewObject("parent", NewTransform())
	child := NewObject("child", NewTransform())
	parent.AddChild(child)

	collider := NewCollider(&Sphere{Radius: 1})
	child.Attach(collider)

	if !collider.Valid() {
		t.Fatalf("collider should be valid before destroy")
	}

	parent.Destroy()
	if child.Valid() || collider.Valid() {
		t.Errorf("destroy must reach the subtree")
	}
}

func TestObjectTags(t *testing.T) {
	o := NewObject("o", NewTransform())
	o.Tag("docked")
	if !o.IsTagged("docked") {
		t.Errorf("tag not set")
	}
	o.Untag("docked")
	if o.IsTagged("docked") {
		t.Errorf("tag not cleared")
	}
}

func TestColliderBody_AttachedToAncestor(t *testing.T) {
	hull := NewObject("hull", NewTransform())
	rb := NewRigidBody()
	hull.Attach(rb)

	fin := NewObject("fin", Transform{Position: mgl64.Vec3{0, 1, 0}})
	hull.AddChild(fin)
	collider := NewCollider(&Box{HalfExtents: mgl64.Vec3{0.1, 0.5, 0.5}})
	fin.Attach(collider)

	if collider.Body() != rb {
		t.Errorf("Body() should resolve to the parent's rigidbody")
	}

	bounds := collider.ComputeBounds()
	if !vec3Equal(bounds.Center(), mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("bounds center = %v, want [0 1 0]", bounds.Center())
	}
}

func TestComponentsInChildren_SkipsPlayer(t *testing.T) {
	vehicle := NewObject("vehicle", NewTransform())
	vehicle.Attach(NewRenderer(), NewLight())

	player := NewObject("player", NewTransform())
	player.Player = true
	player.Attach(NewRenderer())
	vehicle.AddChild(player)

	cockpit := NewObject("cockpit", NewTransform())
	cockpit.Attach(NewRenderer())
	vehicle.AddChild(cockpit)

	all := ComponentsInChildren[*Renderer](vehicle, nil)
	if len(all) != 3 {
		t.Errorf("got %d renderers, want 3", len(all))
	}

	skipPlayer := func(o *Object) bool { return o.Player }
	if got := ComponentsInChildren[*Renderer](vehicle, skipPlayer); len(got) != 2 {
		t.Errorf("got %d renderers without player, want 2", len(got))
	}
	if got := ComponentsInChildren[Toggle](vehicle, skipPlayer); len(got) != 3 {
		t.Errorf("got %d toggles without player, want 3", len(got))
	}
}

// =============================================================================
// RigidBody Tests
// =============================================================================

func TestRigidBodyIntegrate_Velocity(t *testing.T) {
	o := NewObject("o", NewTransform())
	rb := NewRigidBody()
	o.Attach(rb)
	rb.Velocity = mgl64.Vec3{2, 0, 0}

	rb.Integrate(0.5)

	if !vec3Equal(o.Position(), mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Position = %v, want [1 0 0]", o.Position())
	}
}

func TestRigidBodyIntegrate_KinematicDoesNotMove(t *testing.T) {
	o := NewObject("o", NewTransform())
	rb := NewRigidBody()
	o.Attach(rb)
	rb.Velocity = mgl64.Vec3{2, 0, 0}
	rb.Kinematic = true

	rb.Integrate(1)

	if !vec3Equal(o.Position(), mgl64.Vec3{}, 1e-12) {
		t.Errorf("kinematic body moved to %v", o.Position())
	}
}

func TestRigidBodyIntegrate_Damping(t *testing.T) {
	o := NewObject("o", NewTransform())
	rb := NewRigidBody()
	o.Attach(rb)
	rb.LinearDamping = 0.1
	rb.AngularDamping = 0.2
	rb.Velocity = mgl64.Vec3{10, 0, 0}
	rb.AngularVelocity = mgl64.Vec3{0, 10, 0}

	dt := 0.1
	rb.Integrate(dt)

	// Expected: v_new = v_old * exp(-damping * dt)
	if !vec3Equal(rb.Velocity, mgl64.Vec3{10 * math.Exp(-0.1*dt), 0, 0}, 1e-9) {
		t.Errorf("Velocity = %v", rb.Velocity)
	}
	if !vec3Equal(rb.AngularVelocity, mgl64.Vec3{0, 10 * math.Exp(-0.2*dt), 0}, 1e-9) {
		t.Errorf("AngularVelocity = %v", rb.AngularVelocity)
	}

	rotation := o.Node().World().Rotation
	if math.Abs(rotation.Len()-1) > 1e-9 {
		t.Errorf("rotation not normalized: |q| = %v", rotation.Len())
	}
}

func TestRigidBodyStop(t *testing.T) {
	rb := NewRigidBody()
	rb.Velocity = mgl64.Vec3{1, 2, 3}
	rb.AngularVelocity = mgl64.Vec3{1, 0, 0}
	rb.Stop()

	if rb.Velocity.Len() != 0 || rb.AngularVelocity.Len() != 0 {
		t.Errorf("Stop() left velocity %v / %v", rb.Velocity, rb.AngularVelocity)
	}
}
