package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.TTL.Duration != 4*time.Hour {
		t.Errorf("default TTL = %v, want 4h", cfg.TTL.Duration)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("default backend = %q, want file", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_repository = "pytest-dev/pytest"
token = "ghp_filetoken"
ttl = "30m"

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"

[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DefaultRepository != "pytest-dev/pytest" {
		t.Errorf("DefaultRepository = %q", cfg.DefaultRepository)
	}
	if cfg.TTL.Duration != 30*time.Minute {
		t.Errorf("TTL = %v, want 30m", cfg.TTL.Duration)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error for missing file: %v", err)
	}
	if cfg.TTL.Duration != DefaultTTL {
		t.Errorf("TTL = %v, want default", cfg.TTL.Duration)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`default_repository = "octocat/hello-world"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultRepository != "octocat/hello-world" {
		t.Errorf("DefaultRepository = %q", cfg.DefaultRepository)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, defaults should survive partial files", cfg.Cache.Backend)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"none backend", func(c *Config) { c.Cache.Backend = BackendNone }, true},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, false},
		{"bad repository", func(c *Config) { c.DefaultRepository = "no-slash" }, false},
		{"good repository", func(c *Config) { c.DefaultRepository = "octocat/hello-world" }, true},
		{"negative ttl", func(c *Config) { c.TTL.Duration = -time.Hour }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	t.Setenv("REFTITLE_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghp_envtoken")

	cfg := Default()
	if got := cfg.ResolveToken(); got != "ghp_envtoken" {
		t.Errorf("ResolveToken() = %q, want GITHUB_TOKEN value", got)
	}

	t.Setenv("REFTITLE_TOKEN", "ghp_reftitle")
	if got := cfg.ResolveToken(); got != "ghp_reftitle" {
		t.Errorf("ResolveToken() = %q, REFTITLE_TOKEN should win over GITHUB_TOKEN", got)
	}

	cfg.Token = "ghp_filetoken"
	if got := cfg.ResolveToken(); got != "ghp_filetoken" {
		t.Errorf("ResolveToken() = %q, config file should win over env", got)
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()

	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cfg.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "reftitle") {
		t.Errorf("CacheDir() = %q, want XDG path", dir)
	}

	cfg.Cache.Dir = "/explicit/dir"
	dir, _ = cfg.CacheDir()
	if dir != "/explicit/dir" {
		t.Errorf("CacheDir() = %q, explicit dir should win", dir)
	}
}
