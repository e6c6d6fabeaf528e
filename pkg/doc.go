// Package pkg provides the core libraries for lodgrid layered tile maps.
//
// # Overview
//
// lodgrid covers a square map with nested layers of tiles. Each layer
// subdivides every tile of the layer above it into a fixed number of cells,
// laid out either as an even grid or as a one-cell border ring around an
// even center block. The layers become level-of-detail bands a renderer
// switches between by on-screen size.
//
// # Architecture
//
//	subdivision counts
//	         ↓
//	    [tiling] package (resolve a count, lay out cells in a square)
//	         ↓
//	    [layers] package (build one container per count under a root)
//	         ↓
//	    [lod] package (one band per layer, with thresholds)
//	         ↓
//	    [render] packages (SVG/PNG/PDF/JSON bands, DOT hierarchy)
//
// [pipeline] runs these stages with caching; [config] loads settings from
// TOML, YAML and the environment.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Counts:   []int{4, 9},
//	    Colorize: true,
//	    Formats:  []string{pipeline.FormatSVG, pipeline.FormatJSON},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("map.svg", result.Artifacts["svg"], 0o644)
//
// # Supporting packages
//
//   - [scene]: nodes, prototypes and renderables
//   - [paint]: layer colors
//   - [cache]: file, Redis and null artifact caches
//   - [errors]: coded errors shared by every stage
//   - [observability]: generation, pipeline, cache and HTTP hooks
//   - [buildinfo]: version stamped at build time
//
// [tiling]: github.com/matzehuels/lodgrid/pkg/tiling
// [layers]: github.com/matzehuels/lodgrid/pkg/layers
// [lod]: github.com/matzehuels/lodgrid/pkg/lod
// [render]: github.com/matzehuels/lodgrid/pkg/render
// [pipeline]: github.com/matzehuels/lodgrid/pkg/pipeline
// [config]: github.com/matzehuels/lodgrid/pkg/config
// [scene]: github.com/matzehuels/lodgrid/pkg/scene
// [paint]: github.com/matzehuels/lodgrid/pkg/paint
// [cache]: github.com/matzehuels/lodgrid/pkg/cache
// [errors]: github.com/matzehuels/lodgrid/pkg/errors
// [observability]: github.com/matzehuels/lodgrid/pkg/observability
// [buildinfo]: github.com/matzehuels/lodgrid/pkg/buildinfo
package pkg
