package cli

import (
	"context"
	"os"
	"testing"

	"github.com/matzehuels/shotgrid/pkg/cache"
)

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t)

	// Nothing cached yet.
	env.mustRun(t, "cache", "clear")

	env.mustRun(t, "render", env.edit, "-f", "json", "-o", env.dir+"/grid.json")
	entries, err := os.ReadDir(env.cache)
	if err != nil || len(entries) == 0 {
		t.Fatalf("render left no cache entries in %s: %v", env.cache, err)
	}

	env.mustRun(t, "cache", "clear")

	fc, err := cache.NewFileCache(env.cache)
	if err != nil {
		t.Fatal(err)
	}
	n, err := fc.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d entries survived cache clear", n)
	}
}

func TestNewCacheFallback(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config.Cache = cache.Config{Backend: cache.BackendFile}

	// A file cache without a directory cannot open.
	got := c.newCache(context.Background(), false)
	if _, ok := got.(*cache.NullCache); !ok {
		t.Errorf("newCache() = %T, want NullCache", got)
	}
	if _, ok := c.newCache(context.Background(), true).(*cache.NullCache); !ok {
		t.Error("newCache(noCache) did not disable caching")
	}
}

func TestCacheInfo(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "layout", env.edit)
	env.mustRun(t, "cache", "info")

	fc, err := cache.NewFileCache(env.cache)
	if err != nil {
		t.Fatal(err)
	}
	st, err := fc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 1 || st.Expired != 0 {
		t.Errorf("cache after one layout = %+v, want a single live entry", st)
	}
}
