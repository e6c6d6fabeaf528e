package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lodgrid/pkg/cache"
	"github.com/matzehuels/lodgrid/pkg/layers"
	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/observability"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, logger and hooks; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Hooks  observability.Hooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.Disabled("no cache configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → band → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := r.Hooks.WithDefaults()

	result := &Result{
		RunID:   uuid.NewString(),
		MapHash: r.MapHash(opts),
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	logger.Debug("starting run", "options", opts.String())

	// Stage 1+2: Generate and band
	hooks.Pipeline.OnGenerateStart(ctx, opts.Counts)
	genStart := time.Now()
	m, bandTime, err := r.generate(ctx, opts, hooks)
	result.Stats.GenerateTime = time.Since(genStart) - bandTime
	hooks.Pipeline.OnGenerateComplete(ctx, m.Cells(), time.Since(genStart), err)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Map = m
	result.Stats.Layers = len(m.Layers)
	result.Stats.Cells = m.Cells()
	result.Stats.BandTime = bandTime

	logger.Info("generated map",
		"layers", result.Stats.Layers,
		"cells", result.Stats.Cells,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Render
	hooks.Pipeline.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, m, result.MapHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.Pipeline.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate builds the map described by opts without rendering it.
func (r *Runner) Generate(ctx context.Context, opts Options) (Map, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return Map{}, err
	}
	m, _, err := r.generate(ctx, opts, r.Hooks.WithDefaults())
	return m, err
}

func (r *Runner) generate(ctx context.Context, opts Options, hooks observability.Hooks) (Map, time.Duration, error) {
	gen := layers.New(layers.Options{
		Prototype: opts.Prototype(),
		MapSize:   opts.MapSize,
		Colorize:  opts.Colorize,
		MaxCells:  opts.MaxCells,
		Logger:    opts.Logger,
		Hooks:     hooks,
	})

	root := scene.NewNode(RootName)
	built, err := gen.Generate(ctx, root, opts.Counts)
	if err != nil {
		return Map{}, 0, err
	}

	start := time.Now()
	entries, err := lod.Build(built, opts.Thresholds,
		lod.WithLogger(opts.Logger),
		lod.WithBandCallback(func(band, renderables int) {
			hooks.Generation.OnBandBuilt(ctx, band, renderables)
		}))
	if err != nil {
		return Map{}, 0, err
	}
	return Map{Root: root, Layers: built, LODs: entries}, time.Since(start), nil
}

// MapHash returns the hash identifying the map opts describes.
func (r *Runner) MapHash(opts Options) string {
	return cache.Hash([]byte(r.Keyer.MapKey(opts.MapKeyOpts())))
}

// RenderWithCacheInfo renders every requested format, serving each from the
// cache when present. The boolean is true when all of them were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m Map, mapHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := r.Hooks.WithDefaults()

	allCached := true
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(mapHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.Cache.OnCacheHit(ctx, key)
			artifacts[format] = data
			continue
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		hooks.Cache.OnCacheMiss(ctx, key)
		allCached = false

		data, err := RenderFormat(ctx, m, opts, format)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "error", err)
			continue
		}
		hooks.Cache.OnCacheSet(ctx, key, len(data))
	}
	return artifacts, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
