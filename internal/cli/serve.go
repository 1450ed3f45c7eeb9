package cli

import (
	"github.com/spf13/cobra"

	"github.com/sphinx-toolbox/reftitle/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		repo    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve title resolutions over HTTP",
		Long: `Run an HTTP server exposing the resolver, so several documentation
builds can share one warm title cache:

  GET /api/v1/title/{number}
  GET /api/v1/title/{owner}/{repo}/{number}
  GET /healthz

With the redis cache backend configured, multiple server instances share
entries too.

Example:
  reftitle serve --addr :8425`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			resolver, backend, err := c.newResolver(ctx, &cfg, repo, noCache, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			printInfo("Serving titles on %s", StyleHighlight.Render(cfg.Server.Addr))
			if resolver.DefaultRepo() != "" {
				printDetail("Default repository: %s", resolver.DefaultRepo())
			}

			return server.New(resolver, c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&repo, "repo", "r", "", "default repository (owner/name) for bare numbers")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache entirely")

	return cmd
}
