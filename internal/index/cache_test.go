package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ccgen/internal/diag"
)

func TestCacheRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/util.cpp", "b/util.cpp", "a/main.cpp")
	idx, err := Build(context.Background(), root, Options{Exclude: []string{"out"}}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	path := filepath.Join(t.TempDir(), "cache", "index.mp")
	if err := SaveCache(path, idx); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}
	got, err := LoadCache(path, root, []string{"out"})
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if got.Stats() != idx.Stats() {
		t.Fatalf("stats differ: %+v vs %+v", got.Stats(), idx.Stats())
	}
	if got.Lookup("util.cpp").State != Ambiguous {
		t.Fatalf("ambiguity lost in cache")
	}
	if dir, _ := got.Lookup("main.cpp").Resolved(); dir != filepath.Join(root, "a") {
		t.Fatalf("main.cpp dir = %q", dir)
	}
}

func TestCacheMismatch(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main.cpp")
	idx, err := Build(context.Background(), root, Options{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	path := filepath.Join(t.TempDir(), "index.mp")
	if err := SaveCache(path, idx); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	if _, err := LoadCache(path, "/elsewhere", nil); !errors.Is(err, ErrCacheMismatch) {
		t.Fatalf("other root: err = %v", err)
	}
	if _, err := LoadCache(path, root, []string{"build"}); !errors.Is(err, ErrCacheMismatch) {
		t.Fatalf("other excludes: err = %v", err)
	}
	if _, err := LoadCache(filepath.Join(t.TempDir(), "none.mp"), root, nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: err = %v", err)
	}
}

func TestBuildCached(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/main.cpp")
	cachePath := filepath.Join(t.TempDir(), "index.mp")
	cache := CacheOptions{Path: cachePath}

	bag := diag.NewBag(0)
	first, err := BuildCached(context.Background(), root, Options{}, cache, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("first BuildCached: %v", err)
	}
	if bag.Len() != 0 {
		t.Fatalf("first run should be silent, got %v", bag.Items())
	}

	second, err := BuildCached(context.Background(), root, Options{}, cache, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("second BuildCached: %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.IdxCacheReused {
		t.Fatalf("expected cache reuse diagnostic, got %v", bag.Items())
	}
	if second.Stats() != first.Stats() {
		t.Fatalf("cached stats %+v, want %+v", second.Stats(), first.Stats())
	}

	cache.Refresh = true
	bag = diag.NewBag(0)
	if _, err := BuildCached(context.Background(), root, Options{}, cache, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatalf("refresh BuildCached: %v", err)
	}
	if bag.Len() != 0 {
		t.Fatalf("refresh should rebuild without diagnostics, got %v", bag.Items())
	}
}

func TestBuildCachedNoticesTreeChanges(t *testing.T) {
	cases := []struct {
		name   string
		change func(t *testing.T, root string)
		check  func(t *testing.T, idx *Index, root string)
	}{
		{
			name:   "duplicate added",
			change: func(t *testing.T, root string) { writeTree(t, root, "b/util.cpp") },
			check: func(t *testing.T, idx *Index, _ string) {
				if st := idx.Lookup("util.cpp").State; st != Ambiguous {
					t.Fatalf("util.cpp state = %v, want ambiguous", st)
				}
			},
		},
		{
			name:   "file added to an indexed directory",
			change: func(t *testing.T, root string) { writeTree(t, root, "a/late.cpp") },
			check: func(t *testing.T, idx *Index, root string) {
				if dir, _ := idx.Lookup("late.cpp").Resolved(); dir != filepath.Join(root, "a") {
					t.Fatalf("late.cpp dir = %q", dir)
				}
			},
		},
		{
			name: "directory removed",
			change: func(t *testing.T, root string) {
				if err := os.RemoveAll(filepath.Join(root, "a")); err != nil {
					t.Fatal(err)
				}
			},
			check: func(t *testing.T, idx *Index, _ string) {
				if st := idx.Lookup("util.cpp").State; st != Unseen {
					t.Fatalf("util.cpp state = %v, want unseen", st)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, "a/util.cpp")
			cache := CacheOptions{Path: filepath.Join(t.TempDir(), "index.mp")}
			if _, err := BuildCached(context.Background(), root, Options{}, cache, nil); err != nil {
				t.Fatalf("first BuildCached: %v", err)
			}

			tc.change(t, root)
			bag := diag.NewBag(0)
			idx, err := BuildCached(context.Background(), root, Options{}, cache, diag.BagReporter{Bag: bag})
			if err != nil {
				t.Fatalf("second BuildCached: %v", err)
			}
			if bag.Len() != 1 || bag.Items()[0].Code != diag.IOIndexCache {
				t.Fatalf("expected a rebuild diagnostic, got %v", bag.Items())
			}
			tc.check(t, idx, root)
		})
	}
}

func TestDirStateTrustsOldMtime(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main.cpp")
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(root, old, old); err != nil {
		t.Fatal(err)
	}
	idx, err := Build(context.Background(), root, Options{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st, ok := idx.stamps[root]
	if !ok || st.ModTime != old.UnixNano() {
		t.Fatalf("root stamp = %+v, want mtime %d", st, old.UnixNano())
	}
	if !st.current(root) {
		t.Fatalf("untouched directory reported as changed")
	}

	// a scratch file from an atomic write does not change the listing
	if err := os.WriteFile(filepath.Join(root, ".compile_commands.json.42.tmp"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if !st.current(root) {
		t.Fatalf("scratch file counted as a change")
	}
	writeTree(t, root, "extra.cpp")
	if st.current(root) {
		t.Fatalf("new file not noticed")
	}
}

func TestBuildCachedCorruptFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main.cpp")
	cachePath := filepath.Join(t.TempDir(), "index.mp")
	if err := os.WriteFile(cachePath, []byte("not msgpack at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(0)
	idx, err := BuildCached(context.Background(), root, Options{}, CacheOptions{Path: cachePath}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("BuildCached: %v", err)
	}
	if _, ok := idx.Lookup("main.cpp").Resolved(); !ok {
		t.Fatalf("index should be rebuilt")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.IOIndexCache || bag.Items()[0].Severity != diag.SevInfo {
		t.Fatalf("expected one info diagnostic, got %v", bag.Items())
	}
	if _, err := LoadCache(cachePath, idx.Root(), nil); err != nil {
		t.Fatalf("cache should have been rewritten: %v", err)
	}
}
