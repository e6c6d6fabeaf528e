package tiling

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lodgrid/pkg/scene"
)

// Context is everything one generation call needs. It is a value: each
// call gets its own, so repeated calls never see each other's state.
type Context struct {
	// Cells is the number of cells to produce.
	Cells int
	// Center is the world position the grid is centered on.
	Center r3.Vec
	// TileScale is the per-cell scale factor before the prototype's native
	// scale is applied.
	TileScale r3.Vec
	// BaseDimensions is the prototype's extent; offsets are multiplied by it.
	BaseDimensions r3.Vec
	// NativeScale is the prototype's own scale.
	NativeScale r3.Vec
}

// NewContext builds the context for covering a square of side mapSize
// (in prototype units) centered on center with cells cells.
func NewContext(cells int, center r3.Vec, proto scene.Prototype, mapSize float64) Context {
	f := 0.0
	if cells > 0 {
		f = mapSize / math.Sqrt(float64(cells))
	}
	return Context{
		Cells:          cells,
		Center:         center,
		TileScale:      r3.Scale(f, proto.Scale),
		BaseDimensions: proto.Size,
		NativeScale:    proto.Scale,
	}
}

// mulElem returns the component-wise product of a and b.
func mulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}
