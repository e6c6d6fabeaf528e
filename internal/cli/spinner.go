package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lodgrid/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows which stage a generate run is in, with an optional detail
// such as the layer being tiled. Frames go to stderr so artifacts piped from
// stdout stay clean. The spinner stops when its context is cancelled.
type Spinner struct {
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	stage  string
	detail string
	width  int // widest line drawn, for clearing

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newSpinner(stage string) *Spinner {
	return newSpinnerWithContext(context.Background(), stage)
}

func newSpinnerWithContext(ctx context.Context, stage string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		stage:   stage,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// SetStage switches to a new stage and clears the detail.
func (s *Spinner) SetStage(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage, s.detail = stage, ""
}

// SetDetail replaces the text shown after the stage.
func (s *Spinner) SetDetail(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = detail
}

func (s *Spinner) line() string {
	if s.detail == "" {
		return s.stage
	}
	return s.stage + " " + s.detail
}

// Start draws frames every 80ms until Stop or cancellation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line()
	s.width = max(s.width, lipgloss.Width(text)+2)
	fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(text))
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		close(s.done)
		<-s.stopped
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
}

// Cancelled reports whether the spinner's context is done, through Stop or
// its parent.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// =============================================================================
// Runner hooks
// =============================================================================

// progressHooks drives a Spinner from pipeline and generation events:
// "Tiling 9-4-1 layer 2/3 · 4 tiles", then "Rendering svg, png".
type progressHooks struct {
	observability.NoopPipelineHooks
	observability.NoopGenerationHooks

	spinner *Spinner
	mu      sync.Mutex
	layers  int
}

func newProgressHooks(s *Spinner) *progressHooks {
	return &progressHooks{spinner: s}
}

// Hooks wires p into both event categories.
func (p *progressHooks) Hooks() observability.Hooks {
	return observability.Hooks{Generation: p, Pipeline: p}
}

func (p *progressHooks) OnGenerateStart(_ context.Context, counts []int) {
	p.mu.Lock()
	p.layers = len(counts)
	p.mu.Unlock()
	p.spinner.SetStage("Tiling " + countsLabel(counts))
}

func (p *progressHooks) OnLayerStart(_ context.Context, layer, cells int) {
	p.mu.Lock()
	total := p.layers
	p.mu.Unlock()

	tiles := "tiles"
	if cells == 1 {
		tiles = "tile"
	}
	if total > 0 {
		p.spinner.SetDetail(fmt.Sprintf("layer %d/%d · %d %s", layer+1, total, cells, tiles))
		return
	}
	p.spinner.SetDetail(fmt.Sprintf("layer %d · %d %s", layer+1, cells, tiles))
}

func (p *progressHooks) OnBandBuilt(_ context.Context, band, _ int) {
	p.spinner.SetDetail(fmt.Sprintf("band %d", band))
}

func (p *progressHooks) OnRenderStart(_ context.Context, formats []string) {
	p.spinner.SetStage("Rendering " + strings.Join(formats, ", "))
}
