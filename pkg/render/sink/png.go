package sink

import (
	"bytes"
	"context"
	"image/png"

	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	native  bool
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithNativeRaster skips rsvg-convert and draws with RenderRaster.
func WithNativeRaster() PNGOption {
	return func(r *pngRenderer) { r.native = true }
}

// RenderPNG renders one band as PNG via SVG conversion. Without
// rsvg-convert on the PATH it falls back to RenderRaster.
func RenderPNG(ctx context.Context, entries []lod.Entry, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.native || !render.Available() {
		return encodePNG(entries, r)
	}
	svg, err := RenderSVG(entries, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, r.scale)
}

func encodePNG(entries []lod.Entry, r pngRenderer) ([]byte, error) {
	img, err := RenderRaster(entries, r.scale, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
