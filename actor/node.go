package actor

// Node is a transform in a parent/child hierarchy.
// Local is expressed in the parent's frame, or in world space for a root node.
type Node struct {
	Local Transform

	parent   *Node
	children []*Node
	object   *Object
}

// NewNode creates a detached node at the identity transform
func NewNode() *Node {
	return &Node{Local: NewTransform()}
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children, in insertion order
func (n *Node) Children() []*Node {
	return n.children
}

// Object returns the object owning this node, nil for bare nodes
func (n *Node) Object() *Object {
	return n.object
}

// World returns the transform of the node in world space
func (n *Node) World() Transform {
	if n.parent == nil {
		return n.Local
	}
	return n.parent.World().Mul(n.Local)
}

// SetWorld places the node at a world transform, whatever its parent
func (n *Node) SetWorld(world Transform) {
	if n.parent == nil {
		n.Local = world
		return
	}
	n.Local = n.parent.World().Inverse().Mul(world)
}

// SetParent moves the node under parent; nil detaches it to world space.
// With keepWorld the node keeps its world transform, otherwise its local one.
func (n *Node) SetParent(parent *Node, keepWorld bool) {
	if parent == n.parent {
		return
	}

	world := n.World()
	if n.parent != nil {
		n.parent.removeChild(n)
	}

	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}

	if keepWorld {
		n.SetWorld(world)
	}
}

// IsDescendantOf reports whether ancestor is a strict ancestor of n
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func (n *Node) removeChild(child *Node) {
	k := -1
	for i, c := range n.children {
		if c == child {
			k = i
			break
		}
	}

	if k != -1 {
		n.children = append(n.children[:k], n.children[k+1:]...)
	}
}
