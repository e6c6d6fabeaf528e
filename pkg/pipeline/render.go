package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/lodgrid/pkg/render/hierarchy"
	"github.com/matzehuels/lodgrid/pkg/render/sink"
)

// RenderFormat renders m in a single format.
func RenderFormat(ctx context.Context, m Map, opts Options, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = sink.RenderSVG(m.LODs, svgOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(ctx, m.LODs, sink.WithPNGSVGOptions(svgOptions(opts)...))
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, m.LODs, sink.WithPDFSVGOptions(svgOptions(opts)...))
	case FormatJSON:
		data, err = sink.RenderJSON(m.LODs,
			sink.WithJSONTileSize(opts.TileSize),
			sink.WithJSONMap(opts.Counts, opts.MapSize))
	case FormatDOT:
		data = []byte(hierarchy.ToDOT(m.Root, hierarchy.Options{}))
	case FormatTree:
		data, err = hierarchy.RenderSVG(ctx, hierarchy.ToDOT(m.Root, hierarchy.Options{}))
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithBand(opts.Band),
		sink.WithTileSize(opts.TileSize),
	}
	if opts.Size > 0 {
		svgOpts = append(svgOpts, sink.WithSize(float64(opts.Size)))
	}
	if opts.Outline {
		svgOpts = append(svgOpts, sink.WithOutline())
	}
	return svgOpts
}
