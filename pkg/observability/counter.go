package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TileCounter tracks how many tiles exist, overall and per layer. It is a
// GenerationHooks, so handing it to a generator counts every created cell;
// a renderer can additionally call Increase and Decrease as tiles become
// visible or hidden.
//
// TileCounter is safe for concurrent use.
type TileCounter struct {
	live atomic.Int64

	mu      sync.Mutex
	byLayer map[int]int
}

// NewTileCounter returns a counter at zero.
func NewTileCounter() *TileCounter {
	return &TileCounter{byLayer: make(map[int]int)}
}

// Increase adds one live tile.
func (c *TileCounter) Increase() { c.live.Add(1) }

// Decrease removes one live tile. The count never drops below zero.
func (c *TileCounter) Decrease() {
	for {
		v := c.live.Load()
		if v == 0 || c.live.CompareAndSwap(v, v-1) {
			return
		}
	}
}

// Count returns the number of live tiles.
func (c *TileCounter) Count() int { return int(c.live.Load()) }

// Layer returns the number of tiles created for layer.
func (c *TileCounter) Layer(layer int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byLayer[layer]
}

// Reset sets every count back to zero.
func (c *TileCounter) Reset() {
	c.live.Store(0)
	c.mu.Lock()
	c.byLayer = make(map[int]int)
	c.mu.Unlock()
}

func (c *TileCounter) OnLayerStart(context.Context, int, int) {}

func (c *TileCounter) OnTileCreated(_ context.Context, layer, _ int) {
	c.Increase()
	c.mu.Lock()
	c.byLayer[layer]++
	c.mu.Unlock()
}

func (c *TileCounter) OnLayerComplete(context.Context, int, int, time.Duration) {}

func (c *TileCounter) OnBandBuilt(context.Context, int, int) {}
