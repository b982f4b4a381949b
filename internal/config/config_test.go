package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	// a ccgen.toml above the temp dir would make this test meaningless
	if _, ok, _ := Find(filepath.Dir(dir)); ok {
		t.Skip("ccgen.toml present above temp dir")
	}
	m, ok, err := Discover(dir)
	if err != nil || ok || m != nil {
		t.Fatalf("Discover = %v, %v, %v", m, ok, err)
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[input]
log = "build/msbuild.log"
compiler = "clang-cl.exe"

[source]
root = "src"
exclude = [".git", "third_party/*"]

[output]
path = "/tmp/out/compile_commands.json"
unique = true

[index]
cache = ".ccgen/index.mp"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Dir != dir {
		t.Fatalf("Dir = %q", m.Dir)
	}

	s := Defaults()
	m.Apply(&s)
	want := Settings{
		LogPath:    filepath.Join(dir, "build", "msbuild.log"),
		OutputPath: filepath.FromSlash("/tmp/out/compile_commands.json"),
		SourceRoot: filepath.Join(dir, "src"),
		Compiler:   "clang-cl.exe",
		Exclude:    []string{".git", "third_party/*"},
		IndexCache: filepath.Join(dir, ".ccgen", "index.mp"),
		Unique:     true,
	}
	if s.LogPath != want.LogPath || s.OutputPath != want.OutputPath || s.SourceRoot != want.SourceRoot ||
		s.Compiler != want.Compiler || s.IndexCache != want.IndexCache || s.Unique != want.Unique ||
		!slices.Equal(s.Exclude, want.Exclude) {
		t.Fatalf("settings = %+v\nwant       %+v", s, want)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestApplyKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(writeConfig(t, dir, "[input]\nlog = \"a.log\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := Defaults()
	m.Apply(&s)
	if s.Compiler != DefaultCompiler || s.OutputPath != DefaultOutput || s.Unique || s.Exclude != nil {
		t.Fatalf("defaults overwritten: %+v", s)
	}
	if !m.IsDefined("input", "log") || m.IsDefined("output", "unique") {
		t.Fatalf("IsDefined mismatch")
	}

	var nilManifest *Manifest
	nilManifest.Apply(&s)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[input\n", "failed to parse TOML"},
		{"unknown key", "[input]\nlogg = \"x\"\n", "unknown keys: input.logg"},
		{"unknown section", "[outptu]\npath = \"x\"\n", "unknown keys"},
		{"empty compiler", "[input]\ncompiler = \"  \"\n", "[input].compiler"},
		{"bad exclude", "[source]\nexclude = [\"[\"]\n", "bad pattern"},
		{"wrong type", "[output]\nunique = \"yes\"\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	err := Defaults().Validate()
	if err == nil {
		t.Fatalf("defaults lack log and root")
	}
	for _, want := range []string{"build log", "source directory"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}
