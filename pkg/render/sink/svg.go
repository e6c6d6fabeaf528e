package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

// Unpainted is the fill used for tiles without a tint.
const Unpainted = "#9e9e9e"

// DefaultSize is the default length of the longer image side in pixels.
const DefaultSize = 800.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	band     int
	size     float64
	tileSize float64
	outline  bool
}

// WithBand selects the band to draw. Band 0 is the finest layer.
func WithBand(i int) SVGOption { return func(r *svgRenderer) { r.band = i } }

// WithSize sets the length of the longer image side in pixels.
func WithSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.size = px
		}
	}
}

// WithTileSize sets the prototype's edge length; footprints are scaled by it.
func WithTileSize(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.tileSize = s
		}
	}
}

// WithOutline strokes every tile.
func WithOutline() SVGOption { return func(r *svgRenderer) { r.outline = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{size: DefaultSize, tileSize: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// rect is a tile footprint in world units on the x/z plane.
type rect struct {
	id     string
	cx, cz float64
	w, d   float64
	fill   string
}

// bandLayout is one band projected onto the image plane.
type bandLayout struct {
	entry         lod.Entry
	rects         []rect
	minX, maxZ    float64
	k             float64
	width, height float64
}

func (r svgRenderer) layout(entries []lod.Entry) (bandLayout, error) {
	if r.band < 0 || r.band >= len(entries) {
		return bandLayout{}, errors.New(errors.ErrCodeInvalidInput,
			"band %d out of range (map has %d bands)", r.band, len(entries))
	}
	e := entries[r.band]

	rects := buildRects(e.Layer, r.tileSize)
	minX, minZ, maxX, maxZ := bounds(rects)
	spanX, spanZ := maxX-minX, maxZ-minZ
	k := 1.0
	if span := math.Max(spanX, spanZ); span > 0 {
		k = r.size / span
	}
	l := bandLayout{entry: e, rects: rects, minX: minX, maxZ: maxZ, k: k,
		width: spanX * k, height: spanZ * k}
	if len(rects) == 0 {
		l.width, l.height = r.size, r.size
	}
	return l, nil
}

// frame returns t's top-left corner and size in pixels. The z axis points
// up the image.
func (l bandLayout) frame(t rect) (x, y, w, h float64) {
	return (t.cx - t.w/2 - l.minX) * l.k, (l.maxZ - (t.cz + t.d/2)) * l.k, t.w * l.k, t.d * l.k
}

// RenderSVG draws one band of entries as a top-down SVG.
func RenderSVG(entries []lod.Entry, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)
	l, err := r.layout(entries)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.width, l.height, l.width, l.height)
	fmt.Fprintf(&buf, "  <title>%s (band %d, threshold %g)</title>\n", layerName(l.entry), r.band, l.entry.Threshold)

	stroke := `stroke="none"`
	if r.outline {
		stroke = fmt.Sprintf(`stroke="#202020" stroke-width="%.2f"`, r.strokeWidth())
	}
	fmt.Fprintf(&buf, "  <g class=\"band\" data-band=\"%d\" %s>\n", r.band, stroke)
	for _, t := range l.rects {
		x, y, w, h := l.frame(t)
		fmt.Fprintf(&buf, `    <rect class="tile" id="tile-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			t.id, x, y, w, h, t.fill)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r svgRenderer) strokeWidth() float64 {
	return math.Max(0.5, r.size/1000)
}

func buildRects(layer *scene.Node, tileSize float64) []rect {
	if layer == nil {
		return nil
	}
	rects := make([]rect, 0, layer.ChildCount())
	for _, n := range layer.Children() {
		// Same filter as lod.Build: bare transforms are not drawn.
		if n.Renderable() == nil {
			continue
		}
		t := rect{
			id:   n.ID,
			cx:   n.Position.X,
			cz:   n.Position.Z,
			w:    math.Abs(n.Scale.X) * tileSize,
			d:    math.Abs(n.Scale.Z) * tileSize,
			fill: Unpainted,
		}
		if c, ok := n.Color(); ok {
			t.fill = c.Hex()
		}
		rects = append(rects, t)
	}
	return rects
}

func bounds(rects []rect) (minX, minZ, maxX, maxZ float64) {
	if len(rects) == 0 {
		return 0, 0, 0, 0
	}
	minX, minZ = math.Inf(1), math.Inf(1)
	maxX, maxZ = math.Inf(-1), math.Inf(-1)
	for _, t := range rects {
		minX = math.Min(minX, t.cx-t.w/2)
		maxX = math.Max(maxX, t.cx+t.w/2)
		minZ = math.Min(minZ, t.cz-t.d/2)
		maxZ = math.Max(maxZ, t.cz+t.d/2)
	}
	return minX, minZ, maxX, maxZ
}

func layerName(e lod.Entry) string {
	if e.Layer == nil {
		return ""
	}
	return e.Layer.Name
}
