package index

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload changes
const cacheSchemaVersion uint16 = 2

// ErrCacheMismatch is returned by LoadCache when the cache was built for a
// different root, different excludes or an older schema, or when a
// directory of the tree changed after the cache was written.
var ErrCacheMismatch = errors.New("index cache does not match")

// cachePayload is the on-disk form of an Index.
type cachePayload struct {
	Schema    uint16              `msgpack:"schema"`
	Root      string              `msgpack:"root"`
	Exclude   []string            `msgpack:"exclude"`
	Files     int                 `msgpack:"files"`
	Unique    map[string]string   `msgpack:"unique"`
	Ambiguous []string            `msgpack:"ambiguous"`
	Dirs      map[string]dirState `msgpack:"dirs"`
}

// SaveCache writes idx to path, replacing any previous file atomically.
func SaveCache(path string, idx *Index) error {
	if idx == nil {
		return fmt.Errorf("save index cache: nil index")
	}
	payload := cachePayload{
		Schema:    cacheSchemaVersion,
		Root:      idx.root,
		Exclude:   idx.exclude,
		Files:     idx.files,
		Unique:    make(map[string]string, len(idx.entries)),
		Ambiguous: idx.Ambiguous(),
		Dirs:      idx.stamps,
	}
	for name, e := range idx.entries {
		if e.State == Unique {
			payload.Unique[name] = e.Dir
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("save index cache: %w", err)
	}
	f, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("save index cache: %w", err)
	}
	tmp := f.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("save index cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save index cache: %w", err)
	}
	// Атомарная замена
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save index cache: %w", err)
	}
	return nil
}

// LoadCache reads an index saved by SaveCache. root must already be
// absolute. A cache for another root or exclude list yields ErrCacheMismatch.
func LoadCache(path, root string, exclude []string) (*Index, error) {
	// #nosec G304 -- path comes from user configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode index cache %q: %w", path, err)
	}
	switch {
	case payload.Schema != cacheSchemaVersion:
		return nil, fmt.Errorf("%w: schema %d, want %d", ErrCacheMismatch, payload.Schema, cacheSchemaVersion)
	case payload.Root != root:
		return nil, fmt.Errorf("%w: built for %q", ErrCacheMismatch, payload.Root)
	case !slices.Equal(payload.Exclude, exclude):
		return nil, fmt.Errorf("%w: exclude patterns changed", ErrCacheMismatch)
	}
	if dir, ok := staleDir(payload.Dirs); ok {
		return nil, fmt.Errorf("%w: %q changed since the cache was written", ErrCacheMismatch, dir)
	}

	b := newBuilder()
	b.files = payload.Files
	for name, dir := range payload.Unique {
		b.entries[name] = Entry{State: Unique, Dir: dir}
	}
	for _, name := range payload.Ambiguous {
		b.entries[name] = Entry{State: Ambiguous}
	}
	idx := b.freeze(payload.Root, payload.Exclude)
	idx.stamps = payload.Dirs
	return idx, nil
}

// staleDir reports the first recorded directory that is gone or lists
// different names. A new subdirectory shows up as a change of its parent.
func staleDir(dirs map[string]dirState) (string, bool) {
	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		if !dirs[dir].current(dir) {
			return dir, true
		}
	}
	return "", false
}
