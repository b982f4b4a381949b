package testkit

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"ccgen/internal/compdb"
	"ccgen/internal/index"
)

// CheckCommand runs the record invariants on one database entry:
// 1) directory and file are non-empty and file has an extension
// 2) file is the final path component of the last argument
// 3) a directory written in the last argument is used verbatim
func CheckCommand(c compdb.Command) error {
	if c.Directory == "" {
		return fmt.Errorf("empty directory for %q", c.File)
	}
	if !index.HasExtension(c.File) {
		return fmt.Errorf("file %q has no extension", c.File)
	}
	if len(c.Arguments) == 0 {
		return fmt.Errorf("no arguments for %q", c.File)
	}
	dir, name := compdb.SplitPath(c.Arguments[len(c.Arguments)-1])
	if name != c.File {
		return fmt.Errorf("file %q is not the last argument's name %q", c.File, name)
	}
	if dir != "" && dir != c.Directory {
		return fmt.Errorf("directory %q differs from the one in the log %q", c.Directory, dir)
	}
	return nil
}

// CheckDatabase runs CheckCommand on every entry and joins the failures.
func CheckDatabase(cmds []compdb.Command) error {
	var errs []error
	for i, c := range cmds {
		if err := CheckCommand(c); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// CheckIndexInvariants verifies a frozen index:
// 1) unique names carry a directory inside the root
// 2) ambiguous and unseen names carry none
// 3) Stats agrees with the entries
func CheckIndexInvariants(idx *index.Index, names []string) error {
	if idx == nil {
		return fmt.Errorf("nil index")
	}
	root := idx.Root()
	var unique, ambiguous int
	for _, name := range names {
		e := idx.Lookup(name)
		switch e.State {
		case index.Unique:
			unique++
			if e.Dir == "" {
				return fmt.Errorf("%q: unique entry without directory", name)
			}
			if e.Dir != root && !strings.HasPrefix(e.Dir, root+string(filepath.Separator)) {
				return fmt.Errorf("%q: directory %q outside root %q", name, e.Dir, root)
			}
		case index.Ambiguous:
			ambiguous++
			if e.Dir != "" {
				return fmt.Errorf("%q: ambiguous entry keeps directory %q", name, e.Dir)
			}
		default:
			if e.Dir != "" {
				return fmt.Errorf("%q: unseen entry has directory %q", name, e.Dir)
			}
		}
	}
	if got := idx.Ambiguous(); !slices.IsSorted(got) {
		return fmt.Errorf("ambiguous names are not sorted: %v", got)
	}
	st := idx.Stats()
	if st.Unique+st.Ambiguous != st.Names || st.Names != idx.Len() {
		return fmt.Errorf("inconsistent stats %+v for %d names", st, idx.Len())
	}
	if unique > st.Unique || ambiguous > st.Ambiguous {
		return fmt.Errorf("stats %+v undercount %d unique, %d ambiguous", st, unique, ambiguous)
	}
	return nil
}
