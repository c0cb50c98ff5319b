package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody moves its owning object under its own velocity.
// A kinematic body is driven from outside and never integrated.
type RigidBody struct {
	base

	Velocity        mgl64.Vec3 // Linear velocity (m/s)
	AngularVelocity mgl64.Vec3 // Rotation speed (rad/s)

	LinearDamping  float64 // 0.0 - 1.0, typical: 0.01
	AngularDamping float64 // 0.0 - 1.0, typical: 0.05

	Kinematic        bool
	DetectCollisions bool
}

// NewRigidBody creates a dynamic body with collision detection on
func NewRigidBody() *RigidBody {
	return &RigidBody{DetectCollisions: true}
}

// Stop zeroes linear and angular velocity
func (rb *RigidBody) Stop() {
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Integrate(dt float64) {
	if rb.Kinematic || !rb.object.Valid() {
		return
	}

	transform := rb.world()

	// ========== LINEAR DAMPING ==========
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.LinearDamping * dt))
	transform.Position = transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== ANGULAR DAMPING ==========
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.AngularDamping * dt))

	// ========== UPDATE QUATERNION ==========
	if rb.AngularVelocity.Len() > 0 {
		rotation := transform.orientation()
		omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
		qDot := omegaQuat.Mul(rotation).Scale(0.5)
		transform.Rotation = rotation.Add(qDot.Scale(dt)).Normalize()
	}

	rb.object.node.SetWorld(transform)
}
