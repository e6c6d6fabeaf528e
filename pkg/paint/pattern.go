package paint

// Mode selects the coloring pattern.
type Mode int

const (
	// Prism cycles four colors by index.
	Prism Mode = iota
	// Shade darkens a single color by index.
	Shade
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Prism:
		return "prism"
	case Shade:
		return "shade"
	default:
		return "unknown"
	}
}

// ColorFor returns the tint of cell index out of total cells generated in
// one batch.
//
// Prism without a base cycles red, green, blue, white. Prism with a base
// cycles the base's red, green and blue channels in isolation, then the base
// itself. Shade scales the base (white when absent) by 1 - index/total.
func ColorFor(index, total int, base *RGB, mode Mode) RGB {
	switch mode {
	case Shade:
		c := White
		if base != nil {
			c = *base
		}
		if total <= 0 {
			return c
		}
		return c.Scale(1 - float64(index)/float64(total))
	default:
		if base == nil {
			return [...]RGB{Red, Green, Blue, White}[index%4]
		}
		b := *base
		return [...]RGB{{R: b.R}, {G: b.G}, {B: b.B}, b}[index%4]
	}
}

// Rule is the pattern and optional base applied to one generation batch.
type Rule struct {
	Mode Mode
	Base *RGB
}

// Apply colors the cell at index in a batch of total cells.
func (r Rule) Apply(index, total int) RGB {
	return ColorFor(index, total, r.Base, r.Mode)
}

// LayerRule returns the rule for a batch generated at layer (0 is the
// coarsest) underneath a parent cell whose color is parent.
//
//   - layer 0: prism, no base
//   - layer 1: prism seeded with white
//   - deeper layers: shade seeded with the parent cell's color
func LayerRule(layer int, parent *RGB) Rule {
	switch {
	case layer <= 0:
		return Rule{Mode: Prism}
	case layer == 1:
		w := White
		return Rule{Mode: Prism, Base: &w}
	default:
		return Rule{Mode: Shade, Base: parent}
	}
}
