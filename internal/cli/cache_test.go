package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

// runCacheCommand runs "umlflow cache <args>" against a temporary cache and
// returns what the command printed.
func runCacheCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.out = printer{w: &out}
	root := c.RootCommand()
	root.SetArgs(append([]string{"cache"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("cache %v: %v", args, err)
	}
	return out.String()
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"layout:a", "layout:b"} {
		if err := fc.Set(context.Background(), key, []byte("{}"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out := runCacheCommand(t, "clear")

	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("output = %q", out)
	}
	if _, ok, _ := fc.Get(context.Background(), "layout:a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClearCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if out := runCacheCommand(t, "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q", out)
	}
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	if out := runCacheCommand(t, "path"); strings.TrimSpace(out) != filepath.Join(xdg, appName) {
		t.Errorf("output = %q", out)
	}
}
