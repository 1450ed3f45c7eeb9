package cli

import (
	"github.com/spf13/cobra"

	"github.com/sphinx-toolbox/reftitle/internal/config"
	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
)

// cacheCommand creates the cache command group.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the title cache",
		Long: `Inspect and clear the cache of fetched titles.

Entries expire on their own after the configured TTL; clearing is only
needed to force refetches immediately, for example after an issue was
retitled.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			backend, err := c.newBackend(ctx, &cfg, false)
			if err != nil {
				return rterrors.Wrap(rterrors.ErrCodeCacheIO, err, "cache is not accessible")
			}
			defer backend.Close()

			removed, err := backend.Clear(ctx)
			if err != nil {
				return rterrors.Wrap(rterrors.ErrCodeCacheIO, err, "failed to clear cache")
			}

			printSuccess("Removed %d cached entries", removed)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			switch cfg.Cache.Backend {
			case config.BackendRedis:
				cmd.Println(cfg.Cache.RedisAddr)
			case config.BackendNone:
				printInfo("Caching is disabled")
			default:
				dir, err := cfg.CacheDir()
				if err != nil {
					return rterrors.Wrap(rterrors.ErrCodeCacheIO, err, "failed to determine cache directory")
				}
				cmd.Println(dir)
			}
			return nil
		},
	}
}
