package layers

import (
	"context"
	"io"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/observability"
	"github.com/matzehuels/lodgrid/pkg/paint"
	"github.com/matzehuels/lodgrid/pkg/scene"
	"github.com/matzehuels/lodgrid/pkg/tiling"
)

// Defaults applied by New when the corresponding option is zero.
const (
	DefaultNamePrefix = "MapLayer"
	DefaultMapSize    = 1.0
	DefaultMaxCells   = 250_000
)

// Options configures a Generator.
type Options struct {
	// Prototype is the tile model every cell instantiates. Required.
	Prototype scene.Prototype
	// MapSize is the side of the area covered by layer 0, in prototype units.
	MapSize float64
	// NamePrefix prefixes the layer index in container names.
	NamePrefix string
	// Colorize tints every cell whose renderable is Paintable.
	Colorize bool
	// MaxCells bounds the total number of cells over all layers.
	// Negative disables the check.
	MaxCells int

	Logger *log.Logger
	Hooks  observability.Hooks
}

// Generator builds nested tile layers beneath a root node.
// A Generator holds no per-call state and may be reused.
type Generator struct {
	opts   Options
	logger *log.Logger
	hooks  observability.GenerationHooks
}

// New returns a Generator with defaults filled in.
func New(opts Options) *Generator {
	if opts.MapSize == 0 {
		opts.MapSize = DefaultMapSize
	}
	if opts.NamePrefix == "" {
		opts.NamePrefix = DefaultNamePrefix
	}
	if opts.MaxCells == 0 {
		opts.MaxCells = DefaultMaxCells
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Generator{
		opts:   opts,
		logger: logger,
		hooks:  opts.Hooks.WithDefaults().Generation,
	}
}

// Check reports whether counts can be generated without building anything.
func (g *Generator) Check(counts []int) error {
	if len(counts) == 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "subdivision list cannot be empty")
	}
	if g.opts.Prototype.IsZero() {
		return errors.New(errors.ErrCodeInvalidConfiguration, "tile prototype is required")
	}
	if err := errors.ValidateMapSize("map size", g.opts.MapSize); err != nil {
		return err
	}
	for k, n := range counts {
		if _, err := tiling.PlanFor(n); err != nil {
			return errors.Wrap(errors.ErrCodeGenerationNotPossible, err, "layer %d cannot be generated", k)
		}
	}
	if g.opts.MaxCells > 0 {
		if _, total := TotalCells(counts); total > g.opts.MaxCells {
			return errors.New(errors.ErrCodeInvalidConfiguration,
				"layers %v need %d cells, limit is %d", counts, total, g.opts.MaxCells)
		}
	}
	return nil
}

// Generate builds one container per count beneath root, coarsest first, and
// returns them finest first. Layer 0 covers MapSize around root; every cell
// of layer k-1 is subdivided again into counts[k] cells for layer k.
//
// Either every layer is built and attached to root, or an error is returned
// and root is left untouched.
func (g *Generator) Generate(ctx context.Context, root *scene.Node, counts []int) ([]*scene.Node, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "parent node is required")
	}
	if err := g.Check(counts); err != nil {
		return nil, err
	}

	perLayer, _ := TotalCells(counts)
	built := make([]*scene.Node, 0, len(counts))
	for k, n := range counts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		layer := g.container(root, k)
		g.hooks.OnLayerStart(ctx, k, perLayer[k])

		var err error
		if k == 0 {
			err = g.fill(ctx, layer, k, tiling.NewContext(n, root.Position, g.opts.Prototype, g.opts.MapSize), nil)
		} else {
			err = g.subdivide(ctx, layer, built[k-1], k, n)
		}
		if err != nil {
			return nil, err
		}

		built = append(built, layer)
		g.hooks.OnLayerComplete(ctx, k, layer.ChildCount(), time.Since(start))
		g.logger.Debug("generated layer", "layer", layer.Name, "cells", layer.ChildCount(), "duration", time.Since(start))
	}

	for _, layer := range built {
		root.AddChild(layer)
	}
	slices.Reverse(built)
	return built, nil
}

func (g *Generator) subdivide(ctx context.Context, layer, parent *scene.Node, k, n int) error {
	for _, cell := range parent.Children() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var base *paint.RGB
		if c, ok := cell.Color(); ok {
			base = &c
		}
		tc := tiling.NewContext(n, cell.Position, g.opts.Prototype, cell.Scale.X)
		if err := g.fill(ctx, layer, k, tc, base); err != nil {
			return err
		}
	}
	return nil
}

// fill generates one batch of cells into layer.
func (g *Generator) fill(ctx context.Context, layer *scene.Node, k int, tc tiling.Context, parentColor *paint.RGB) error {
	specs, err := tiling.GenerateAuto(tc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeGenerationNotPossible, err, "layer %d", k)
	}
	rule := paint.LayerRule(k, parentColor)
	for i, spec := range specs {
		node := g.opts.Prototype.Instantiate(spec.Position, spec.Scale)
		if g.opts.Colorize {
			node.Paint(rule.Apply(i, len(specs)))
		}
		layer.AddChild(node)
		g.hooks.OnTileCreated(ctx, k, layer.ChildCount()-1)
	}
	return nil
}

func (g *Generator) container(root *scene.Node, k int) *scene.Node {
	layer := scene.NewNode(g.opts.NamePrefix + strconv.Itoa(k))
	layer.Position = root.Position
	layer.Rotation = root.Rotation
	return layer
}

// TotalCells returns the number of cells each layer will hold and their
// sum. Layer k holds the product of counts[0..k]. Results saturate at
// math.MaxInt instead of overflowing.
func TotalCells(counts []int) (perLayer []int, total int) {
	perLayer = make([]int, len(counts))
	acc := 1
	for k, n := range counts {
		acc = satMul(acc, n)
		perLayer[k] = acc
		total = satAdd(total, acc)
	}
	return perLayer, total
}

func satMul(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

func satAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
