package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/lodgrid/pkg/pipeline"
	"github.com/matzehuels/lodgrid/pkg/tiling"
)

// captureStdout points the status writer at a buffer for one test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintRunSummary(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   string
	}{
		{
			name: "fresh",
			stats: pipeline.Stats{
				Layers:       2,
				Cells:        13,
				GenerateTime: 1200 * time.Microsecond,
				BandTime:     40 * time.Microsecond,
				RenderTime:   time.Second,
			},
			want: "  2 layers · 13 tiles · 1.2ms · fresh\n",
		},
		{
			name:   "cached",
			stats:  pipeline.Stats{Layers: 1, Cells: 9, GenerateTime: 1500 * time.Nanosecond},
			cached: true,
			want:   "  1 layers · 9 tiles · 2µs · cached\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			printRunSummary(tt.stats, tt.cached)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintArtifacts(t *testing.T) {
	buf := captureStdout(t)
	printArtifacts([]string{"lodgrid-9-4.svg", "lodgrid-9-4.png"})
	assert.Equal(t, "  → lodgrid-9-4.svg\n  → lodgrid-9-4.png\n", buf.String())
}

func TestPrintStatusLines(t *testing.T) {
	buf := captureStdout(t)
	printSuccess("Generated %s", "9-4")
	printWarning("%d of %d counts cannot be laid out", 1, 3)
	printNextStep("Browse the layers", "lodgrid inspect 9 4")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"✓ Generated 9-4",
		"! 1 of 3 counts cannot be laid out",
		"",
		"Browse the layers: lodgrid inspect 9 4",
	}, lines)
}

func TestMethodStyle(t *testing.T) {
	even := methodStyle(tiling.Even.String()).GetForeground()
	ring := methodStyle(tiling.BorderPlusCenter.String()).GetForeground()
	none := methodStyle(tiling.Impossible.String()).GetForeground()

	assert.Equal(t, colorOK, even)
	assert.Equal(t, colorRing, ring)
	assert.Equal(t, colorFail, none)
}

func TestRoundDuration(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{1234 * time.Nanosecond, time.Microsecond},
		{1234567 * time.Nanosecond, 1200 * time.Microsecond},
		{1234567890 * time.Nanosecond, 1230 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundDuration(tt.in), "roundDuration(%v)", tt.in)
	}
}
