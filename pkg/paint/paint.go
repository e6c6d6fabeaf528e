// Package paint computes tile tints for generated grid layers.
//
// Two patterns exist. Prism cycles through red, green, blue and a fourth
// color by index, so neighbouring cells are always distinguishable. Shade
// darkens a single color linearly with the cell's position in its batch.
// Either pattern can be seeded with a base color taken from the parent cell,
// which is how color flows from one layer into the next.
package paint

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a linear color with channels in [0, 1].
type RGB colorful.Color

// Named colors used by the prism pattern.
var (
	Red   = RGB{R: 1}
	Green = RGB{G: 1}
	Blue  = RGB{B: 1}
	White = RGB{R: 1, G: 1, B: 1}
	Black = RGB{}
)

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color(c).Clamped().Hex()
}

// Scale multiplies every channel by f.
func (c RGB) Scale(f float64) RGB {
	return RGB{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Equal reports whether c and o are within tol on every channel.
func (c RGB) Equal(o RGB, tol float64) bool {
	return abs(c.R-o.R) <= tol && abs(c.G-o.G) <= tol && abs(c.B-o.B) <= tol
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// RGBA implements color.Color. Channels are clamped to [0,1] first.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return colorful.Color(c).Clamped().RGBA()
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%.3f, %.3f, %.3f)", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as a hex string.
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON decodes a hex string.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	col, err := ParseHex(s)
	if err != nil {
		return fmt.Errorf("parse color %q: %w", s, err)
	}
	*c = col
	return nil
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	return RGB(col), nil
}
