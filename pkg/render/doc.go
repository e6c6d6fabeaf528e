// Package render turns generated tile maps into files.
//
// The [sink] subpackage draws LOD bands as SVG, PNG or PDF and exports them
// as JSON. The [hierarchy] subpackage draws the scene graph itself through
// Graphviz, which is handy when checking how layers nest.
//
// [ToPDF] and [ToPNG] convert any SVG by shelling out to rsvg-convert:
//
//	svg, err := sink.RenderSVG(entries, sink.WithBand(1))
//	...
//	png, err := render.ToPNG(ctx, svg, 2)
//
// [sink]: github.com/matzehuels/lodgrid/pkg/render/sink
// [hierarchy]: github.com/matzehuels/lodgrid/pkg/render/hierarchy
package render
