package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/coarsen/pkg/cache"
	"github.com/matzehuels/coarsen/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contraction API over HTTP",
		Long: `Serve the contraction API over HTTP until interrupted.

Endpoints:
  POST /v1/contract    contract a graph
  POST /v1/hierarchy   mappings for every level
  POST /v1/render      draw a quotient graph
  GET  /healthz        liveness and build info

The cache backend comes from the config file; use redis or mongo when
running several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			backend := cfg.Cache.Backend
			if c.noCache {
				backend = cache.BackendNone
			}
			c.Logger.Info("starting server", "addr", cfg.Server.Addr, "cache", backend)
			srv := server.New(runner, c.Logger, server.WithAllowedOrigins(cfg.Server.CORSOrigins...))
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
