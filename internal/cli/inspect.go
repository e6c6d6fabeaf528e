package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		colorize bool
		mapSize  float64
		static   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [counts...]",
		Short: "Browse the layers and LOD bands of a map",
		Example: `  lodgrid inspect 4 9 --colorize
  lodgrid inspect 41 --static`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.PipelineOptions()
			if cmd.Flags().Changed("colorize") {
				opts.Colorize = colorize
			}
			if cmd.Flags().Changed("map-size") {
				opts.MapSize = mapSize
			}
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

			// Nothing is rendered, so there is nothing to cache.
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			prog := newProgress(c.Logger)
			m, err := runner.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Generated %d tiles", m.Cells()))

			browser := NewLayerBrowser(m)
			if static {
				fmt.Println(browser.bandsView())
				return nil
			}
			_, err = tea.NewProgram(browser, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&colorize, "colorize", false, "paint tiles with layer colors")
	cmd.Flags().Float64Var(&mapSize, "map-size", pipeline.DefaultMapSize, "world-space side length of the map")
	cmd.Flags().BoolVar(&static, "static", false, "print the band table and exit")

	return cmd
}
