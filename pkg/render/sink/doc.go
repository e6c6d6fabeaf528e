// Package sink renders LOD bands to output formats.
//
// A "sink" takes the [lod.Entry] list produced for a map and writes one
// representation of it:
//
//   - SVG: a top-down view of one band, one rectangle per tile
//   - JSON: every band with tile transforms and colors, for external tools
//   - PDF and PNG: the SVG converted by rsvg-convert
//   - Raster: the same view drawn in process, used for PNG when
//     rsvg-convert is missing
//
// The SVG is drawn on the x/z plane with +z pointing up. Tiles are drawn
// with their world footprint, which is the node scale times the tile size
// of the prototype:
//
//	svg, err := sink.RenderSVG(entries, sink.WithBand(2), sink.WithOutline())
//
// Tiles whose renderable carries no tint are drawn in [Unpainted].
//
// [lod.Entry]: github.com/matzehuels/lodgrid/pkg/lod.Entry
package sink
