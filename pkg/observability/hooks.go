// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Hooks are values handed to the
// components that emit events; there is no process-wide registry, so two
// generators in one process can report to different sinks.
//
// # Architecture
//
//   - Hook interfaces for each event category
//   - No-op default implementations
//   - A [Hooks] bundle that fills unset categories with no-ops
//   - [TileCounter], a ready-made GenerationHooks that counts live tiles
//
// # Usage
//
//	counter := observability.NewTileCounter()
//	gen := layers.New(layers.Options{Hooks: observability.Hooks{Generation: counter}})
//	// ... generate ...
//	fmt.Println(counter.Count())
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from the layer generator.
type GenerationHooks interface {
	// OnLayerStart fires before a layer's cells are generated.
	OnLayerStart(ctx context.Context, layer, cells int)

	// OnTileCreated fires once for every cell instantiated in a layer.
	OnTileCreated(ctx context.Context, layer, index int)

	// OnLayerComplete fires after a layer is attached to the scene.
	OnLayerComplete(ctx context.Context, layer, cells int, duration time.Duration)

	// OnBandBuilt fires for every LOD band assembled from a layer.
	OnBandBuilt(ctx context.Context, band, renderables int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives stage events from the pipeline runner.
type PipelineHooks interface {
	OnGenerateStart(ctx context.Context, counts []int)
	OnGenerateComplete(ctx context.Context, cells int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnLayerStart(context.Context, int, int)                    {}
func (NoopGenerationHooks) OnTileCreated(context.Context, int, int)                   {}
func (NoopGenerationHooks) OnLayerComplete(context.Context, int, int, time.Duration) {}
func (NoopGenerationHooks) OnBandBuilt(context.Context, int, int)                     {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, []int)                           {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Bundle
// =============================================================================

// Hooks groups the hooks handed to a component. Nil fields are treated as
// no-ops.
type Hooks struct {
	Generation GenerationHooks
	Pipeline   PipelineHooks
	Cache      CacheHooks
	HTTP       HTTPHooks
}

// WithDefaults returns a copy of h with every nil field set to its no-op.
func (h Hooks) WithDefaults() Hooks {
	if h.Generation == nil {
		h.Generation = NoopGenerationHooks{}
	}
	if h.Pipeline == nil {
		h.Pipeline = NoopPipelineHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return h
}

// MultiGeneration fans generation events out to several hooks in order.
type MultiGeneration []GenerationHooks

func (m MultiGeneration) OnLayerStart(ctx context.Context, layer, cells int) {
	for _, h := range m {
		h.OnLayerStart(ctx, layer, cells)
	}
}

func (m MultiGeneration) OnTileCreated(ctx context.Context, layer, index int) {
	for _, h := range m {
		h.OnTileCreated(ctx, layer, index)
	}
}

func (m MultiGeneration) OnLayerComplete(ctx context.Context, layer, cells int, d time.Duration) {
	for _, h := range m {
		h.OnLayerComplete(ctx, layer, cells, d)
	}
}

func (m MultiGeneration) OnBandBuilt(ctx context.Context, band, renderables int) {
	for _, h := range m {
		h.OnBandBuilt(ctx, band, renderables)
	}
}
