package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sphinx-toolbox/reftitle/pkg/cache"
	"github.com/sphinx-toolbox/reftitle/pkg/resolve"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"resolve", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseRefArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    resolve.Reference
		wantErr bool
	}{
		{arg: "7680", want: resolve.Reference{Number: 7680}},
		{arg: "#7680", want: resolve.Reference{Number: 7680}},
		{arg: "pytest-dev/pytest#7680", want: resolve.Reference{Repo: "pytest-dev/pytest", Number: 7680}},
		{arg: "7680 <pytest-dev/pytest>", want: resolve.Reference{Repo: "pytest-dev/pytest", Number: 7680}},
		{arg: "  42  ", want: resolve.Reference{Number: 42}},
		{arg: "owner/repo#0", wantErr: true},
		{arg: "owner/repo#abc", wantErr: true},
		{arg: "/repo#1", wantErr: true},
		{arg: "abc", wantErr: true},
		{arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseRefArg(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseRefArg(%q) = %+v, want error", tt.arg, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRefArg(%q) error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("parseRefArg(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

// writeTestConfig writes a config file pointing the file cache at cacheDir
// and returns the config path.
func writeTestConfig(t *testing.T, cacheDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf("default_repository = %q\n\n[cache]\nbackend = %q\ndir = %q\n",
		"octocat/hello-world", "file", cacheDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestCacheClearCommand(t *testing.T) {
	cacheDir := t.TempDir()

	// Seed the cache with a couple of entries.
	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"issue:octocat/hello-world#1", "issue:octocat/hello-world#2"} {
		if err := fc.Set(ctx, key, []byte(`{}`), time.Hour); err != nil {
			t.Fatalf("Set(%q) error: %v", key, err)
		}
	}
	fc.Close()

	root := newTestCLI().RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", writeTestConfig(t, cacheDir), "cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	// The cache directory should hold no entry files afterwards.
	var files []string
	err = filepath.WalkDir(cacheDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking cache dir: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("cache dir still contains %d files after clear: %v", len(files), files)
	}
}

func TestResolveCommand_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 1, "title": "Fix the widget", "state": "closed", "html_url": "https://github.com/octocat/hello-world/issues/1"}`)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf("default_repository = %q\napi_url = %q\n\n[cache]\nbackend = %q\ndir = %q\n",
		"octocat/hello-world", srv.URL, "file", cacheDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", configPath, "resolve", "1", "--json"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	var titles []resolve.Title
	if err := json.Unmarshal(out.Bytes(), &titles); err != nil {
		t.Fatalf("decoding output: %v\noutput: %s", err, out.String())
	}
	if len(titles) != 1 {
		t.Fatalf("got %d titles, want 1", len(titles))
	}
	if titles[0].Text != "Fix the widget" {
		t.Errorf("Text = %q, want %q", titles[0].Text, "Fix the widget")
	}
	if titles[0].Placeholder {
		t.Error("Placeholder = true, want false")
	}
}

func TestResolveCommand_InvalidArgumentDoesNotAbortBatch(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprintf(w, `{"number": %s, "title": "A real title", "state": "open", "html_url": ""}`,
			r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf("default_repository = %q\napi_url = %q\n\n[cache]\nbackend = %q\ndir = %q\n",
		"octocat/hello-world", srv.URL, "file", cacheDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", configPath, "resolve", "1", "bogus", "2", "--json"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("resolve error: %v (a malformed argument must not abort the batch)", err)
	}

	var titles []resolve.Title
	if err := json.Unmarshal(out.Bytes(), &titles); err != nil {
		t.Fatalf("decoding output: %v\noutput: %s", err, out.String())
	}
	if len(titles) != 3 {
		t.Fatalf("got %d titles, want 3", len(titles))
	}

	if titles[0].Placeholder || titles[0].Text != "A real title" {
		t.Errorf("titles[0] = %+v, want resolved title", titles[0])
	}
	if !titles[1].Placeholder || titles[1].Text != "bogus" {
		t.Errorf("titles[1] = %+v, want literal-text placeholder for the invalid argument", titles[1])
	}
	if titles[2].Placeholder || titles[2].Number != 2 {
		t.Errorf("titles[2] = %+v, want resolved title for #2", titles[2])
	}

	if got := requests.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2 (both valid references still resolved)", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	cacheDir := t.TempDir()

	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", writeTestConfig(t, cacheDir), "cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache path error: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != cacheDir {
		t.Errorf("cache path = %q, want %q", got, cacheDir)
	}
}
