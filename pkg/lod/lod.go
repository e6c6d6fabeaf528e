// Package lod groups generated layers into level-of-detail bands.
//
// Each layer container becomes one [Entry]: a transition threshold plus the
// renderables of the layer's direct children. Choosing which band to draw
// at a given distance is left to the renderer.
package lod

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

// Entry is one LOD band.
type Entry struct {
	// Threshold is the screen-relative height below which the renderer
	// should switch to the next entry.
	Threshold float64
	// Layer is the container the renderables were collected from.
	Layer *scene.Node
	// Renderables holds the renderables of Layer's children in order.
	Renderables []scene.Renderable
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	logger  *log.Logger
	onBuilt func(band, renderables int)
}

// WithLogger routes warnings about empty bands to logger.
func WithLogger(logger *log.Logger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBandCallback calls fn after every band is assembled.
func WithBandCallback(fn func(band, renderables int)) Option {
	return func(b *builder) { b.onBuilt = fn }
}

// Build pairs layers with thresholds, in order. It fails with
// LIST_SIZE_MISMATCH when the two slices differ in length. Children without
// a renderable are skipped; a band left with none is logged as a warning.
func Build(layers []*scene.Node, thresholds []float64, opts ...Option) ([]Entry, error) {
	if len(layers) != len(thresholds) {
		return nil, errors.New(errors.ErrCodeListSizeMismatch,
			"%d layers but %d thresholds", len(layers), len(thresholds))
	}

	b := builder{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(&b)
	}

	entries := make([]Entry, 0, len(layers))
	for i, layer := range layers {
		if layer == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "layer %d is nil", i)
		}
		e := Entry{Threshold: thresholds[i], Layer: layer}
		for _, child := range layer.Children() {
			if r := child.Renderable(); r != nil {
				e.Renderables = append(e.Renderables, r)
			}
		}
		if len(e.Renderables) == 0 {
			b.logger.Warn("no renderables found in layer children", "layer", layer.Name, "children", layer.ChildCount())
		}
		if b.onBuilt != nil {
			b.onBuilt(i, len(e.Renderables))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DefaultThresholds returns n thresholds 1, 1/2, 1/3, … for callers that
// have no tuned values.
func DefaultThresholds(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(i+1)
	}
	return out
}
