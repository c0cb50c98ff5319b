package actor

// Component is anything attached to an Object
type Component interface {
	Object() *Object
	attach(o *Object)
}

// Toggle is a component that can be switched on and off
type Toggle interface {
	Component
	IsEnabled() bool
	SetEnabled(enabled bool)
}

type base struct {
	object *Object
}

func (b *base) Object() *Object  { return b.object }
func (b *base) attach(o *Object) { b.object = o }
func (b *base) world() Transform { return b.object.node.World() }

// Collider is a collision or trigger volume attached to an object
type Collider struct {
	base
	Shape ShapeInterface
	// Offset is the shape's transform relative to the owning object
	Offset    Transform
	Enabled   bool
	IsTrigger bool
}

func NewCollider(shape ShapeInterface) *Collider {
	return &Collider{Shape: shape, Offset: NewTransform(), Enabled: true}
}

func (c *Collider) IsEnabled() bool         { return c.Enabled }
func (c *Collider) SetEnabled(enabled bool) { c.Enabled = enabled }

// Valid reports whether the collider and its owner are still alive
func (c *Collider) Valid() bool {
	return c != nil && c.object.Valid()
}

// Body returns the rigidbody the collider is attached to: the nearest one on
// the owning object or its ancestors
func (c *Collider) Body() *RigidBody {
	for o := c.object; o != nil; o = o.Parent() {
		if rb := o.RigidBody(); rb != nil {
			return rb
		}
	}
	return nil
}

// ComputeBounds refreshes and returns the world bounds of the shape
func (c *Collider) ComputeBounds() AABB {
	c.Shape.ComputeAABB(c.world().Mul(c.Offset))
	return c.Shape.GetAABB()
}

// Volume returns the shape at its current world placement
func (c *Collider) Volume() Volume {
	return Volume{Shape: c.Shape, Transform: c.world().Mul(c.Offset)}
}

// Bounds returns the world bounds computed by the last ComputeBounds call
func (c *Collider) Bounds() AABB {
	return c.Shape.GetAABB()
}

// Renderer draws an object's mesh
type Renderer struct {
	base
	Enabled bool
}

func NewRenderer() *Renderer { return &Renderer{Enabled: true} }

func (r *Renderer) IsEnabled() bool         { return r.Enabled }
func (r *Renderer) SetEnabled(enabled bool) { r.Enabled = enabled }

// Light is a light source attached to an object
type Light struct {
	base
	Enabled bool
}

func NewLight() *Light { return &Light{Enabled: true} }

func (l *Light) IsEnabled() bool         { return l.Enabled }
func (l *Light) SetEnabled(enabled bool) { l.Enabled = enabled }

// Emitter is a particle system; only its emission is toggled
type Emitter struct {
	base
	Emitting bool
}

func NewEmitter() *Emitter { return &Emitter{Emitting: true} }

func (e *Emitter) IsEnabled() bool         { return e.Emitting }
func (e *Emitter) SetEnabled(enabled bool) { e.Emitting = enabled }

// Behaviour is a named piece of per-frame logic owned by the host
type Behaviour struct {
	base
	Name    string
	Enabled bool
}

func NewBehaviour(name string) *Behaviour { return &Behaviour{Name: name, Enabled: true} }

func (b *Behaviour) IsEnabled() bool         { return b.Enabled }
func (b *Behaviour) SetEnabled(enabled bool) { b.Enabled = enabled }
