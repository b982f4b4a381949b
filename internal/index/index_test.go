package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ccgen/internal/diag"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("// "+f+"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExtension(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"main.cpp", "cpp"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{".gitignore", ""},
		{"trailing.", ""},
		{"", ""},
		{"..", ""},
	}
	for _, tc := range cases {
		if got := Extension(tc.name); got != tc.want {
			t.Fatalf("Extension(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestBuildUniqueNames(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"app/main.cpp",
		"app/main.h",
		"lib/deep/nested/tree/util.cpp",
		"README",
		".clang-format",
	)

	idx, err := Build(context.Background(), root, Options{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cases := []struct {
		name string
		dir  string
	}{
		{"main.cpp", filepath.Join(root, "app")},
		{"main.h", filepath.Join(root, "app")},
		{"util.cpp", filepath.Join(root, "lib", "deep", "nested", "tree")},
	}
	for _, tc := range cases {
		dir, ok := idx.Lookup(tc.name).Resolved()
		if !ok || dir != tc.dir {
			t.Fatalf("Lookup(%q) = %q, %v; want %q", tc.name, dir, ok, tc.dir)
		}
	}
	for _, name := range []string{"README", ".clang-format", "missing.cpp"} {
		if st := idx.Lookup(name).State; st != Unseen {
			t.Fatalf("Lookup(%q).State = %v, want unseen", name, st)
		}
	}
	st := idx.Stats()
	if st.Files != 3 || st.Unique != 3 || st.Ambiguous != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if idx.Root() != root {
		t.Fatalf("Root() = %q, want %q", idx.Root(), root)
	}
}

func TestBuildMarksDuplicatesAmbiguous(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/util.cpp", "b/util.cpp", "c/d/util.cpp", "b/only.cpp")

	idx, err := Build(context.Background(), root, Options{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := idx.Lookup("util.cpp")
	if e.State != Ambiguous || e.Dir != "" {
		t.Fatalf("util.cpp entry = %+v, want ambiguous without dir", e)
	}
	if _, ok := e.Resolved(); ok {
		t.Fatalf("ambiguous entry must not resolve")
	}
	if got := idx.Ambiguous(); len(got) != 1 || got[0] != "util.cpp" {
		t.Fatalf("Ambiguous() = %v", got)
	}
	if dir, ok := idx.Lookup("only.cpp").Resolved(); !ok || dir != filepath.Join(root, "b") {
		t.Fatalf("only.cpp = %q, %v", dir, ok)
	}
}

func TestBuildRejectsNonDirectoryRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	writeTree(t, root, "file.txt")

	for _, p := range []string{file, filepath.Join(root, "missing")} {
		_, err := Build(context.Background(), p, Options{}, nil)
		if !errors.Is(err, ErrNotDirectory) {
			t.Fatalf("Build(%q) err = %v, want ErrNotDirectory", p, err)
		}
	}
}

func TestBuildContinuesPastUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeTree(t, root, "ok/main.cpp", "locked/hidden.cpp", "zz/last.cpp")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	bag := diag.NewBag(0)
	idx, err := Build(context.Background(), root, Options{}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.IOReadDir {
		t.Fatalf("expected one read_dir diagnostic, got %v", bag.Items())
	}
	for _, name := range []string{"main.cpp", "last.cpp"} {
		if _, ok := idx.Lookup(name).Resolved(); !ok {
			t.Fatalf("%s missing after sibling failure", name)
		}
	}
	if idx.Lookup("hidden.cpp").State != Unseen {
		t.Fatalf("hidden.cpp should not be indexed")
	}
}

func TestBuildExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/main.cpp", "build/main.cpp", "third_party/x/gen.cpp")

	idx, err := Build(context.Background(), root, Options{Exclude: []string{"build", "third_party/*"}}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if dir, ok := idx.Lookup("main.cpp").Resolved(); !ok || dir != filepath.Join(root, "src") {
		t.Fatalf("main.cpp = %q, %v; excluded copy should not count", dir, ok)
	}
	if idx.Lookup("gen.cpp").State != Unseen {
		t.Fatalf("gen.cpp lives under an excluded directory")
	}

	if _, err := Build(context.Background(), root, Options{Exclude: []string{"["}}, nil); err == nil {
		t.Fatalf("expected invalid pattern error")
	}
}

func TestBuildProgress(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/x.c", "b/y.c")
	var last Progress
	_, err := Build(context.Background(), root, Options{Progress: func(p Progress) { last = p }}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if last.Dirs != 3 || last.Files != 2 {
		t.Fatalf("last progress = %+v", last)
	}
}

func TestBuildCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main.cpp")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, root, Options{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSymlinkedDirectoriesAreNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, "real/main.cpp")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "loop")); err != nil {
		t.Skipf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "real", "main.cpp"), filepath.Join(root, "alias.cpp")); err != nil {
		t.Skipf("symlink: %v", err)
	}
	idx, err := Build(context.Background(), root, Options{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if dir, ok := idx.Lookup("main.cpp").Resolved(); !ok || dir != filepath.Join(root, "real") {
		t.Fatalf("main.cpp = %q, %v", dir, ok)
	}
	if dir, ok := idx.Lookup("alias.cpp").Resolved(); !ok || dir != root {
		t.Fatalf("alias.cpp = %q, %v", dir, ok)
	}
}
