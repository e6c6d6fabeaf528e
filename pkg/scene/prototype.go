package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lodgrid/pkg/paint"
)

// Renderable is the handle an external renderer draws for a node.
type Renderable interface {
	ModelName() string
}

// Paintable is implemented by renderables that accept a tint.
type Paintable interface {
	Renderable
	Paint(c paint.RGB)
	Color() (paint.RGB, bool)
}

// Mesh is the default Renderable: a reference to a model plus an optional tint.
type Mesh struct {
	Model   string
	tint    paint.RGB
	painted bool
}

// ModelName implements Renderable.
func (m *Mesh) ModelName() string { return m.Model }

// Paint implements Paintable.
func (m *Mesh) Paint(c paint.RGB) {
	m.tint = c
	m.painted = true
}

// Color implements Paintable.
func (m *Mesh) Color() (paint.RGB, bool) { return m.tint, m.painted }

// Prototype describes the tile model that every generated cell instantiates.
type Prototype struct {
	// Name is copied onto every instantiated node.
	Name string
	// Size is the model's extent in model units at unit scale.
	Size r3.Vec
	// Scale is the model's native scale.
	Scale r3.Vec
	// NewRenderable builds the renderable attached to each instance.
	// When nil, instances are bare transforms.
	NewRenderable func() Renderable
}

// DefaultTileName is the node name given to cells of UnitTile.
const DefaultTileName = "SquareTile"

// UnitTile returns a square tile of unit size and scale rendered as a Mesh.
func UnitTile() Prototype {
	return Prototype{
		Name:  DefaultTileName,
		Size:  r3.Vec{X: 1, Y: 1, Z: 1},
		Scale: r3.Vec{X: 1, Y: 1, Z: 1},
		NewRenderable: func() Renderable {
			return &Mesh{Model: DefaultTileName}
		},
	}
}

// IsZero reports whether p has not been configured.
func (p Prototype) IsZero() bool {
	return p.Name == "" && p.Size == (r3.Vec{}) && p.Scale == (r3.Vec{}) && p.NewRenderable == nil
}

// Instantiate creates an unparented node for one cell.
func (p Prototype) Instantiate(position, scale r3.Vec) *Node {
	n := NewNode(p.Name)
	n.Position = position
	n.Scale = scale
	if p.NewRenderable != nil {
		n.SetRenderable(p.NewRenderable())
	}
	return n
}
