package scene

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lodgrid/pkg/paint"
)

// Identity is the rotation that leaves a node unrotated.
var Identity = quat.Number{Real: 1}

// Node is a transform in the scene hierarchy. Positions are world-space;
// the grid never composes transforms, so Scale is both local and effective.
type Node struct {
	ID       string
	Name     string
	Position r3.Vec
	Scale    r3.Vec
	Rotation quat.Number

	renderable Renderable
	parent     *Node
	children   []*Node
}

// NewNode returns an unparented node at the origin with unit scale.
func NewNode(name string) *Node {
	return &Node{
		ID:       uuid.NewString(),
		Name:     name,
		Scale:    r3.Vec{X: 1, Y: 1, Z: 1},
		Rotation: Identity,
	}
}

// AddChild appends child to n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Detach removes n from its parent. It is a no-op on root nodes.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children in insertion order.
// The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th direct child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Renderable returns the attached renderable, or nil when the node only
// groups other nodes.
func (n *Node) Renderable() Renderable { return n.renderable }

// SetRenderable attaches r to the node.
func (n *Node) SetRenderable(r Renderable) { n.renderable = r }

// Color returns the tint of the node's renderable when it is Paintable
// and has been painted.
func (n *Node) Color() (paint.RGB, bool) {
	p, ok := n.renderable.(Paintable)
	if !ok {
		return paint.RGB{}, false
	}
	return p.Color()
}

// Paint tints the node's renderable. It reports false when the renderable
// does not support painting.
func (n *Node) Paint(c paint.RGB) bool {
	p, ok := n.renderable.(Paintable)
	if !ok {
		return false
	}
	p.Paint(c)
	return true
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node, int) bool {
		total++
		return true
	})
	return total
}
