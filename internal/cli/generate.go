package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/pipeline"
)

// generateFlags holds the flags for the generate command. Only flags the
// user sets override the configuration file.
type generateFlags struct {
	thresholds []float64
	mapSize    float64
	tileSize   float64
	colorize   bool
	maxCells   int
	formats    string
	band       int
	size       int
	outline    bool
	output     string
	noCache    bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	flags := generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [counts...]",
		Short: "Generate a layered tile map and render it",
		Long: `Generate builds one layer per subdivision count, coarsest first, and writes
the requested artifacts. Counts can be given as separate arguments or as a
comma-separated list. Without arguments the counts from the config file are used.

Formats: svg, png, pdf (need rsvg-convert), json, dot, tree.`,
		Example: `  lodgrid generate 4 9 --colorize
  lodgrid generate 9,4 --format svg,json -o out/map
  lodgrid generate 41 4 --band 1 --outline --format png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), cmd.Flags(), args, flags)
		},
	}

	f := cmd.Flags()
	f.Float64SliceVar(&flags.thresholds, "thresholds", nil, "LOD thresholds, one per count (default 2^-(i+1))")
	f.Float64Var(&flags.mapSize, "map-size", pipeline.DefaultMapSize, "world-space side length of the map")
	f.Float64Var(&flags.tileSize, "tile-size", pipeline.DefaultTileSize, "side length of the tile model")
	f.BoolVar(&flags.colorize, "colorize", false, "paint tiles with layer colors")
	f.IntVar(&flags.maxCells, "max-cells", 0, "refuse maps with more tiles than this (0 uses the default, -1 disables)")
	f.StringVarP(&flags.formats, "format", "f", "", "output formats, comma-separated (default svg)")
	f.IntVar(&flags.band, "band", 0, "LOD band to draw in svg, png and pdf output")
	f.IntVar(&flags.size, "size", pipeline.DefaultImageSize, "image side length in pixels")
	f.BoolVar(&flags.outline, "outline", false, "stroke tile outlines")
	f.StringVarP(&flags.output, "output", "o", "", "output path or directory")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, fs *pflag.FlagSet, args []string, flags generateFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.PipelineOptions()
	flags.apply(fs, &opts)

	counts, err := parseCounts(args)
	if err != nil {
		return err
	}
	if len(counts) > 0 {
		opts.Counts = counts
	}
	if len(opts.Counts) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no subdivision counts given")
	}

	runner, err := c.newRunner(ctx, cfg.Cache, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	label := countsLabel(opts.Counts)
	spinner := newSpinnerWithContext(ctx, "Tiling "+label)
	runner.Hooks = newProgressHooks(spinner).Hooks()
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		base:      appName + "-" + label,
		output:    flags.output,
	})
	if err != nil {
		return err
	}

	printSuccess("Generated %s", StyleHighlight.Render(label))
	printArtifacts(paths)
	printRunSummary(result.Stats, result.CacheHit)
	printNextStep("Browse the layers", fmt.Sprintf("%s inspect %s", appName, strings.Join(strings.Split(label, "-"), " ")))
	return nil
}

// apply copies every flag the user set onto opts.
func (f generateFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	if fs.Changed("thresholds") {
		opts.Thresholds = f.thresholds
	}
	if fs.Changed("map-size") {
		opts.MapSize = f.mapSize
	}
	if fs.Changed("tile-size") {
		opts.TileSize = f.tileSize
	}
	if fs.Changed("colorize") {
		opts.Colorize = f.colorize
	}
	if fs.Changed("max-cells") {
		opts.MaxCells = f.maxCells
	}
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if fs.Changed("band") {
		opts.Band = f.band
	}
	if fs.Changed("size") {
		opts.Size = f.size
	}
	if fs.Changed("outline") {
		opts.Outline = f.outline
	}
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	// base is the file name stem used when output is empty or a directory.
	base string
	// output is the -o flag.
	output string
}

// writeArtifacts writes one file per rendered format and returns the paths
// in format order.
//
// With no output the files land in the working directory as base.<ext>. An
// output ending in a separator, or naming an existing directory, receives
// base.<ext> inside it. Any other output is a path stem; its extension is
// kept only when a single artifact is written.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	formats := make([]string, 0, len(p.artifacts))
	for format := range p.artifacts {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := artifactPath(p.output, p.base, format, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(output, base, format string, single bool) string {
	ext := "." + pipeline.FormatExtension(format)
	switch {
	case output == "":
		return base + ext
	case strings.HasSuffix(output, string(filepath.Separator)) || isDir(output):
		return filepath.Join(output, base+ext)
	case single && filepath.Ext(output) != "":
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + ext
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
