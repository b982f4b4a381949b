// Package index maps source file names to the directory that holds them.
//
// The map is built once by walking a source tree and is read-only
// afterwards. A name seen twice anywhere in the tree is Ambiguous: both
// directories are equally plausible, so neither is kept.
package index

import (
	"path/filepath"
	"slices"
)

// Index is a frozen file-name → directory lookup. It has no mutating
// methods and may be shared between goroutines without locking.
type Index struct {
	root    string
	exclude []string
	entries map[string]Entry
	files   int
	stamps  map[string]dirState
}

// Stats summarises an Index.
type Stats struct {
	Files     int // files with an extension that were observed
	Names     int // distinct file names
	Unique    int
	Ambiguous int
}

// Root returns the absolute directory the index was built from.
func (x *Index) Root() string { return x.root }

// Exclude returns the directory patterns that were skipped while walking.
func (x *Index) Exclude() []string { return slices.Clone(x.exclude) }

// Lookup returns the entry for a bare file name. Names never observed come
// back as Entry{State: Unseen}.
func (x *Index) Lookup(name string) Entry {
	if x == nil {
		return Entry{}
	}
	return x.entries[name]
}

// Len returns the number of distinct file names.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

func (x *Index) Stats() Stats {
	st := Stats{Files: x.files, Names: len(x.entries)}
	for _, e := range x.entries {
		switch e.State {
		case Unique:
			st.Unique++
		case Ambiguous:
			st.Ambiguous++
		}
	}
	return st
}

// Ambiguous returns the sorted names that resolve to more than one
// directory.
func (x *Index) Ambiguous() []string {
	var names []string
	for name, e := range x.entries {
		if e.State == Ambiguous {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// builder owns the mutable map while the walk is running. Only the
// goroutine consuming walked paths touches it.
type builder struct {
	entries map[string]Entry
	files   int
}

func newBuilder() *builder {
	return &builder{entries: make(map[string]Entry)}
}

// observe records one file path. First sighting of a name inserts it; any
// later sighting marks it Ambiguous and drops the directory.
func (b *builder) observe(path string) {
	name := filepath.Base(path)
	if !HasExtension(name) {
		return
	}
	b.files++
	b.insert(name, filepath.Dir(path))
}

func (b *builder) insert(name, dir string) {
	e, seen := b.entries[name]
	switch {
	case !seen:
		b.entries[name] = Entry{State: Unique, Dir: dir}
	case e.State != Ambiguous:
		b.entries[name] = Entry{State: Ambiguous}
	}
}

func (b *builder) freeze(root string, exclude []string) *Index {
	x := &Index{
		root:    root,
		exclude: slices.Clone(exclude),
		entries: b.entries,
		files:   b.files,
	}
	b.entries = nil
	return x
}
