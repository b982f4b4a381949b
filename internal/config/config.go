// Package config loads ccgen.toml and merges it with built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration file looked up by Discover.
const FileName = "ccgen.toml"

const (
	DefaultOutput   = "compile_commands.json"
	DefaultCompiler = "cl.exe"
)

// File mirrors the sections of ccgen.toml.
type File struct {
	Input  InputSection  `toml:"input"`
	Source SourceSection `toml:"source"`
	Output OutputSection `toml:"output"`
	Index  IndexSection  `toml:"index"`
}

type InputSection struct {
	Log      string `toml:"log"`
	Compiler string `toml:"compiler"`
}

type SourceSection struct {
	Root    string   `toml:"root"`
	Exclude []string `toml:"exclude"`
}

type OutputSection struct {
	Path   string `toml:"path"`
	Unique bool   `toml:"unique"`
}

type IndexSection struct {
	Cache string `toml:"cache"`
}

// Manifest is a loaded ccgen.toml. Paths in File are already resolved
// against Dir.
type Manifest struct {
	Path string
	Dir  string
	File File
	meta toml.MetaData
}

// IsDefined reports whether key was present in the file, e.g.
// IsDefined("output", "unique").
func (m *Manifest) IsDefined(key ...string) bool {
	if m == nil {
		return false
	}
	return m.meta.IsDefined(key...)
}

// Find walks up from startDir to locate ccgen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest ccgen.toml above startDir.
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load parses path. Unknown keys are an error so that typos do not pass
// silently.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	var f File
	meta, err := toml.DecodeFile(abs, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", abs, strings.Join(keys, ", "))
	}
	if meta.IsDefined("input", "compiler") && strings.TrimSpace(f.Input.Compiler) == "" {
		return nil, fmt.Errorf("%s: [input].compiler must not be empty", abs)
	}
	for _, p := range f.Source.Exclude {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("%s: [source].exclude: bad pattern %q: %w", abs, p, err)
		}
	}

	m := &Manifest{Path: abs, Dir: filepath.Dir(abs), File: f, meta: meta}
	m.File.Input.Log = m.resolve(f.Input.Log)
	m.File.Source.Root = m.resolve(f.Source.Root)
	m.File.Output.Path = m.resolve(f.Output.Path)
	m.File.Index.Cache = m.resolve(f.Index.Cache)
	return m, nil
}

func (m *Manifest) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
