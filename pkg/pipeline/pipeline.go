// Package pipeline provides the generate → band → render pipeline for lodgrid.
//
// The CLI and the HTTP server both run maps through a [Runner] so validation,
// defaults and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: build the nested tile layers under a fresh root node
//  2. Band: pair the layers with thresholds into LOD entries
//  3. Render: write the requested formats (SVG, PNG, PDF, JSON, DOT, tree)
//
// Generation is cheap and the scene graph is always rebuilt. Rendered
// artifacts are cached under a key derived from every option that affects
// them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Counts:  []int{9, 4},
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lodgrid/pkg/cache"
	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/layers"
	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMapSize is the side of the area covered by the coarsest layer.
	DefaultMapSize = 2.0

	// DefaultTileSize is the edge length of the tile prototype.
	DefaultTileSize = 1.0

	// DefaultImageSize is the longer side of raster and vector output in pixels.
	DefaultImageSize = 800

	// RootName is the name of the node every map is generated under.
	RootName = "Map"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTree: true,
}

// FormatExtension maps a format to the file extension written by the CLI.
func FormatExtension(format string) string {
	if format == FormatTree {
		return "tree.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Counts     []int     `json:"counts"`
	Thresholds []float64 `json:"thresholds,omitempty"`
	MapSize    float64   `json:"map_size,omitempty"`
	TileSize   float64   `json:"tile_size,omitempty"`
	Colorize   bool      `json:"colorize,omitempty"`
	MaxCells   int       `json:"max_cells,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Band    int      `json:"band,omitempty"`
	Size    int      `json:"size,omitempty"`
	Outline bool     `json:"outline,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Map is a generated scene: the root, its layer containers finest first,
// and one LOD entry per layer.
type Map struct {
	Root   *scene.Node
	Layers []*scene.Node
	LODs   []lod.Entry
}

// Cells returns the number of tiles over all layers.
func (m Map) Cells() int {
	n := 0
	for _, l := range m.Layers {
		n += l.ChildCount()
	}
	return n
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Map

	// RunID identifies this run in logs and API responses.
	RunID string

	// MapHash identifies the map options; equal hashes mean equal maps.
	MapHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers       int
	Cells        int
	GenerateTime time.Duration
	BandTime     time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate applies generation defaults and checks the result.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	if err := errors.ValidateSubdivisions(o.Counts); err != nil {
		return err
	}
	if err := errors.ValidateMapSize("map_size", o.MapSize); err != nil {
		return err
	}
	if err := errors.ValidateMapSize("tile_size", o.TileSize); err != nil {
		return err
	}
	if err := errors.ValidateThresholds(o.Thresholds); err != nil {
		return err
	}
	if len(o.Thresholds) != len(o.Counts) {
		return errors.New(errors.ErrCodeListSizeMismatch,
			"%d counts but %d thresholds", len(o.Counts), len(o.Thresholds))
	}
	return nil
}

// ValidateForRender applies render defaults and checks the result.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Band < 0 || (len(o.Counts) > 0 && o.Band >= len(o.Counts)) {
		return errors.New(errors.ErrCodeInvalidInput,
			"band %d out of range (map has %d layers)", o.Band, len(o.Counts))
	}
	if o.Size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %d", o.Size)
	}
	return nil
}

// SetGenerateDefaults sets default values for generation.
func (o *Options) SetGenerateDefaults() {
	if o.MapSize == 0 {
		o.MapSize = DefaultMapSize
	}
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	if len(o.Thresholds) == 0 {
		o.Thresholds = lod.DefaultThresholds(len(o.Counts))
	}
	if o.MaxCells == 0 {
		o.MaxCells = layers.DefaultMaxCells
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Size == 0 {
		o.Size = DefaultImageSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Prototype returns the square tile every cell instantiates.
func (o *Options) Prototype() scene.Prototype {
	p := scene.UnitTile()
	p.Size = r3.Vec{X: o.TileSize, Y: o.TileSize, Z: o.TileSize}
	return p
}

// MapKeyOpts returns cache key options for the generated map.
func (o *Options) MapKeyOpts() cache.MapKeyOpts {
	return cache.MapKeyOpts{
		Counts:     o.Counts,
		Thresholds: o.Thresholds,
		MapSize:    o.MapSize,
		TileSize:   o.TileSize,
		Colorize:   o.Colorize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Band:    o.Band,
		Size:    o.Size,
		Outline: o.Outline,
	}
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("counts=%v map_size=%g formats=%v", o.Counts, o.MapSize, o.Formats)
}
