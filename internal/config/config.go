// Package config loads the reftitle configuration file.
//
// The file lives at ~/.config/reftitle/config.toml (honoring
// XDG_CONFIG_HOME) and every field is optional:
//
//	default_repository = "sphinx-toolbox/sphinx_toolbox"
//	token = ""             # or set GITHUB_TOKEN / REFTITLE_TOKEN
//	ttl = "4h"
//	api_url = ""           # override for GitHub Enterprise
//
//	[cache]
//	backend = "file"       # file | redis | none
//	dir = ""               # default ~/.cache/reftitle
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8425"
//
// Command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
	"github.com/sphinx-toolbox/reftitle/pkg/github"
)

// DefaultTTL is how long resolved titles stay fresh.
const DefaultTTL = 4 * time.Hour

// Cache backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Duration wraps time.Duration for TOML decoding ("4h", "30m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Config holds the reftitle configuration.
type Config struct {
	DefaultRepository string       `toml:"default_repository"`
	Token             string       `toml:"token"`
	TTL               Duration     `toml:"ttl"`
	APIURL            string       `toml:"api_url"`
	Cache             CacheConfig  `toml:"cache"`
	Server            ServerConfig `toml:"server"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		TTL: Duration{DefaultTTL},
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":8425",
		},
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "reftitle", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reftitle", "config.toml"), nil
}

// Load reads the config file at path, falling back to defaults for a
// missing file. An empty path means the default location.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return cfg, nil // no home dir; defaults are all we have
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, rterrors.Wrap(rterrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values that have a constrained domain.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return rterrors.New(rterrors.ErrCodeInvalidConfig,
			"unknown cache backend %q: use %s, %s, or %s",
			c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}

	if c.DefaultRepository != "" {
		if _, _, err := github.ParseRepoRef(c.DefaultRepository); err != nil {
			return rterrors.Wrap(rterrors.ErrCodeInvalidConfig, err, "default_repository")
		}
	}

	if c.TTL.Duration < 0 {
		return rterrors.New(rterrors.ErrCodeInvalidConfig, "ttl must not be negative")
	}
	return nil
}

// ResolveToken returns the API token: config value first, then the
// REFTITLE_TOKEN and GITHUB_TOKEN environment variables.
func (c *Config) ResolveToken() string {
	if c.Token != "" {
		return c.Token
	}
	if t := os.Getenv("REFTITLE_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GITHUB_TOKEN")
}

// CacheDir returns the configured cache directory, defaulting to the XDG
// cache path (~/.cache/reftitle).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "reftitle"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(home, ".cache", "reftitle"), nil
}
