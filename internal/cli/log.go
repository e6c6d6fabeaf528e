// Package cli implements the lodgrid command-line interface.
//
// The CLI generates layered tile maps, explains how cell counts are laid
// out, browses generated layers interactively, serves the HTTP API and
// manages the artifact cache. It is built on cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - generate: build a map and write SVG, PNG, PDF, JSON or DOT artifacts
//   - resolve: show the layout method chosen for each cell count
//   - inspect: browse the layers and LOD bands of a map in the terminal
//   - serve: run the HTTP API
//   - cache: clear or locate the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports per-layer generation progress.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Generated 41 tiles (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
