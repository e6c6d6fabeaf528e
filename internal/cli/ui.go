package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lodgrid/pkg/pipeline"
	"github.com/matzehuels/lodgrid/pkg/tiling"
)

// stdout receives every status line. Progress frames go to stderr through
// the spinner instead.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal: titles, counts, spinner
	colorOK     = lipgloss.Color("35")  // even grids, success, cache hits
	colorRing   = lipgloss.Color("220") // border rings, warnings
	colorFail   = lipgloss.Color("167") // impossible counts
	colorLink   = lipgloss.Color("75")  // addresses and suggested commands
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	// StyleTitle heads the browser views.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight marks the counts label of a map.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleLink renders listen addresses.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// StyleDim is for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	styleValue   = lipgloss.NewStyle().Foreground(colorValue)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// statusMarks are the glyphs in front of status lines.
var statusMarks = map[string]lipgloss.Style{
	"✓": lipgloss.NewStyle().Foreground(colorOK),
	"!": lipgloss.NewStyle().Foreground(colorRing),
	"›": lipgloss.NewStyle().Foreground(colorLabel),
}

// methodStyle colors a layout method the same way in every table.
func methodStyle(method string) lipgloss.Style {
	switch method {
	case tiling.Even.String():
		return lipgloss.NewStyle().Foreground(colorOK)
	case tiling.BorderPlusCenter.String():
		return lipgloss.NewStyle().Foreground(colorRing)
	default:
		return lipgloss.NewStyle().Foreground(colorFail)
	}
}

// =============================================================================
// Status lines
// =============================================================================

func printStatus(mark, format string, args ...any) {
	fmt.Fprintln(stdout, statusMarks[mark].Render(mark)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printStatus("✓", format, args...) }

func printInfo(format string, args ...any) { printStatus("›", format, args...) }

func printWarning(format string, args ...any) {
	printStatus("!", "%s", lipgloss.NewStyle().Foreground(colorRing).Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+styleValue.Render(value))
}

// =============================================================================
// Generate output
// =============================================================================

// printArtifacts lists written files, one per line.
func printArtifacts(paths []string) {
	for _, p := range paths {
		fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(p))
	}
}

// printRunSummary prints "2 layers · 40 tiles · 1.2ms · fresh" for a run.
// The time is generation plus banding; rendering is left out so cached and
// fresh runs compare.
func printRunSummary(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d layers", stats.Layers),
		fmt.Sprintf("%d tiles", stats.Cells),
		roundDuration(stats.GenerateTime + stats.BandTime).String(),
	}
	status := StyleDim.Render("fresh")
	if cached {
		status = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}

	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	parts = append(parts, status)
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command after a blank line.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(100 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}
