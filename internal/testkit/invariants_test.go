package testkit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ccgen/internal/compdb"
	"ccgen/internal/index"
)

func TestCheckCommand(t *testing.T) {
	cases := []struct {
		name string
		cmd  compdb.Command
		want string
	}{
		{"ok bare", compdb.Command{File: "a.c", Directory: "/s", Arguments: []string{"cl.exe", "a.c"}}, ""},
		{"ok verbatim", compdb.Command{File: "a.c", Directory: `C:\s`, Arguments: []string{"cl.exe", `C:\s\a.c`}}, ""},
		{"empty dir", compdb.Command{File: "a.c", Arguments: []string{"a.c"}}, "empty directory"},
		{"no ext", compdb.Command{File: "a", Directory: "/s", Arguments: []string{"a"}}, "no extension"},
		{"name mismatch", compdb.Command{File: "a.c", Directory: "/s", Arguments: []string{"b.c"}}, "last argument"},
		{"dir mismatch", compdb.Command{File: "a.c", Directory: "/s", Arguments: []string{"/t/a.c"}}, "differs"},
	}
	for _, tc := range cases {
		err := CheckCommand(tc.cmd)
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v, want %q", tc.name, err, tc.want)
		}
	}
}

func TestCheckDatabaseJoinsErrors(t *testing.T) {
	err := CheckDatabase([]compdb.Command{
		{File: "a.c", Directory: "/s", Arguments: []string{"a.c"}},
		{File: "b", Directory: "/s", Arguments: []string{"b"}},
		{File: "c.c", Arguments: []string{"c.c"}},
	})
	if err == nil || !strings.Contains(err.Error(), "entry 1") || !strings.Contains(err.Error(), "entry 2") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckIndexInvariants(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"a/x.cpp", "b/x.cpp", "a/y.h", "z"} {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	idx, err := index.Build(context.Background(), root, index.Options{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := CheckIndexInvariants(idx, []string{"x.cpp", "y.h", "z", "missing.c"}); err != nil {
		t.Fatalf("CheckIndexInvariants: %v", err)
	}
	if err := CheckIndexInvariants(nil, nil); err == nil {
		t.Fatalf("nil index must fail")
	}
}
