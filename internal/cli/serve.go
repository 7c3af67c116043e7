package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forceatlas/pkg/api"
	"github.com/matzehuels/forceatlas/pkg/metrics"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  POST /v1/layout            lay out a graph, returns a layout JSON document
  POST /v1/render?format=    lay out and render a graph or render a layout
  GET  /healthz              liveness check
  GET  /metrics              Prometheus metrics

Layout flags set the defaults that requests start from. Configure a Redis
cache in the config file to share layouts between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), &cfg.Layout)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner, err := c.newRunner(cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}

			serverCfg := api.Config{
				Runner:          runner,
				Defaults:        cfg.Layout,
				Logger:          c.Logger,
				MaxBodyBytes:    cfg.Server.MaxBodyBytes,
				RequestTimeout:  cfg.Server.RequestTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			}
			if !noMetrics {
				reg := metrics.NewRegistry()
				reg.Install()
				serverCfg.Metrics = reg.Handler()
			}

			newUI(cmd.OutOrStdout()).info("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			return api.New(serverCfg).ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	flags.register(cmd.Flags())

	return cmd
}
