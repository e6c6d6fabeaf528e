package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lodgrid/internal/server"
	"github.com/matzehuels/lodgrid/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map API over HTTP",
		Example: `  lodgrid serve --addr :9000
  LODGRID_CACHE_BACKEND=redis LODGRID_REDIS_ADDR=localhost:6379 lodgrid serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			counter := observability.NewTileCounter()
			runner.Hooks = observability.Hooks{Generation: counter}

			srv := server.New(cfg.Server, runner, c.Logger)
			defer srv.Close()

			printSuccess("Serving on %s", StyleLink.Render(displayAddr(cfg.Server.Addr)))
			printKeyValue("Cache", cfg.Cache.Backend)
			printKeyValue("Rate limit", fmt.Sprintf("%g req/s, burst %d", cfg.Server.RequestsPerSecond, cfg.Server.Burst))
			printKeyValue("Tile budget", fmt.Sprintf("%d", cfg.Server.MaxCells))

			err = srv.ListenAndServe(cmd.Context())
			c.Logger.Info("served", "tiles", counter.Count())
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// displayAddr turns ":8080" into a clickable URL.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
