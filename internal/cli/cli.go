// Package cli implements the reftitle command-line interface.
//
// This package provides commands for resolving GitHub issue and
// pull-request references to display titles, serving resolutions over
// HTTP, and managing the on-disk title cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - resolve: Resolve one or more references and print their titles
//   - serve: Expose the resolver over HTTP for shared caches
//   - cache: Manage the title cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sphinx-toolbox/reftitle/internal/config"
	"github.com/sphinx-toolbox/reftitle/pkg/buildinfo"
	"github.com/sphinx-toolbox/reftitle/pkg/cache"
	"github.com/sphinx-toolbox/reftitle/pkg/github"
	"github.com/sphinx-toolbox/reftitle/pkg/resolve"
)

// appName is the application name used for directories and display.
const appName = "reftitle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Reftitle resolves GitHub issue and PR references to titles",
		Long: `Reftitle turns issue and pull-request references like "7680 <pytest-dev/pytest>"
into human-readable titles, caching results on disk so repeated documentation
builds stay fast and keep working offline.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, honoring the --config flag.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newBackend builds the cache backend selected by the config.
// When noCache is set the backend is a no-op regardless of config.
func (c *CLI) newBackend(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// newResolver builds a resolver from config plus command-line overrides.
// repoOverride, when non-empty, replaces the configured default repository.
func (c *CLI) newResolver(ctx context.Context, cfg *config.Config, repoOverride string, noCache, refresh bool) (*resolve.Resolver, cache.Cache, error) {
	backend, err := c.newBackend(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}

	client := github.NewClient(backend, cfg.ResolveToken(), cfg.TTL.Duration, c.Logger)
	if cfg.APIURL != "" {
		client.SetBaseURL(cfg.APIURL)
	}

	defaultRepo := cfg.DefaultRepository
	if repoOverride != "" {
		defaultRepo = repoOverride
	}

	resolver, err := resolve.NewResolver(client, defaultRepo, c.Logger)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	resolver.Refresh = refresh

	return resolver, backend, nil
}
