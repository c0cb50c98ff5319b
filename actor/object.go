package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Object is an identity handle in the scene: a node with components and tags.
// A destroyed object stays in memory but every holder must treat it as absent.
type Object struct {
	ID   uuid.UUID
	Name string
	// Player marks an embedded player subtree, skipped by vehicle component enumeration
	Player bool

	node       Node
	components []Component
	tags       map[string]struct{}
	destroyed  bool
}

// NewObject creates a root object at the given world transform
func NewObject(name string, transform Transform) *Object {
	o := &Object{
		ID:   uuid.New(),
		Name: name,
		tags: make(map[string]struct{}),
	}
	o.node.Local = transform
	o.node.object = o

	return o
}

// Valid reports whether the handle can still be used
func (o *Object) Valid() bool {
	return o != nil && !o.destroyed
}

// Destroy marks the object and its whole subtree as destroyed
func (o *Object) Destroy() {
	o.destroyed = true
	for _, child := range o.node.children {
		if child.object != nil {
			child.object.Destroy()
		}
	}
}

func (o *Object) Destroyed() bool {
	return o.destroyed
}

func (o *Object) Node() *Node {
	return &o.node
}

func (o *Object) Parent() *Object {
	for p := o.node.parent; p != nil; p = p.parent {
		if p.object != nil {
			return p.object
		}
	}
	return nil
}

// AddChild parents child under o, keeping child's transform as local
func (o *Object) AddChild(child *Object) {
	child.node.SetParent(&o.node, false)
}

func (o *Object) Position() mgl64.Vec3 {
	return o.node.World().Position
}

// Attach adds components to the object
func (o *Object) Attach(components ...Component) {
	for _, c := range components {
		c.attach(o)
		o.components = append(o.components, c)
	}
}

func (o *Object) Components() []Component {
	return o.components
}

func (o *Object) Tag(tag string) {
	o.tags[tag] = struct{}{}
}

func (o *Object) Untag(tag string) {
	delete(o.tags, tag)
}

func (o *Object) IsTagged(tag string) bool {
	_, ok := o.tags[tag]
	return ok
}

// RigidBody returns the first rigidbody attached directly to o
func (o *Object) RigidBody() *RigidBody {
	for _, c := range o.components {
		if rb, ok := c.(*RigidBody); ok {
			return rb
		}
	}
	return nil
}

// ComponentsOf returns the components of type T attached directly to o
func ComponentsOf[T Component](o *Object) []T {
	var found []T
	for _, c := range o.components {
		if t, ok := c.(T); ok {
			found = append(found, t)
		}
	}
	return found
}

// ComponentsInChildren returns the components of type T in o's subtree, depth first.
// Subtrees rooted at an object matching skip are left out; skip may be nil.
func ComponentsInChildren[T Component](o *Object, skip func(*Object) bool) []T {
	var found []T
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.object != nil {
			if skip != nil && skip(n.object) {
				return
			}
			found = append(found, ComponentsOf[T](n.object)...)
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(&o.node)

	return found
}
