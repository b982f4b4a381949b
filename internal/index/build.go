package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"ccgen/internal/diag"
	"ccgen/internal/queue"
	"ccgen/internal/trace"
)

// ErrNotDirectory is returned when the source root is missing or is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// Options configures a walk.
type Options struct {
	// Exclude holds glob patterns for directories to skip, matched against
	// the directory name and its slash-separated path relative to the root.
	Exclude []string
	// Progress, when set, is called from the walking goroutine after each
	// directory is read.
	Progress func(Progress)
}

// Progress is a running count of the walk.
type Progress struct {
	Dirs  int
	Files int
}

// CheckRoot resolves root to an absolute path and verifies it is a directory.
func CheckRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("provided path is not a directory: %q: %w", root, ErrNotDirectory)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("provided path is not a directory: %q: %w", root, ErrNotDirectory)
	}
	return abs, nil
}

// Build walks root and returns the completed index. Directory read failures
// are reported to rep and skipped; the walk itself never fails except for a
// bad root or a cancelled context.
//
// The walker and the map builder run on separate goroutines connected by a
// queue. Build returns only after both have finished, so the caller always
// receives the index of the whole tree.
func Build(ctx context.Context, root string, opts Options, rep diag.Reporter) (*Index, error) {
	abs, err := CheckRoot(root)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		rep = diag.NopReporter
	}
	if err := validatePatterns(opts.Exclude); err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopePhase, "index")
	defer span.End(abs)

	paths := queue.NewUnbounded[string]()
	b := newBuilder()
	w := &walker{
		root:    abs,
		opts:    opts,
		rep:     rep,
		out:     paths,
		stamps:  make(map[string]dirState),
		started: time.Now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer paths.Close()
		_, walkSpan := trace.Start(gctx, trace.ScopeStage, "stage:walk")
		err := w.run(gctx)
		walkSpan.WithExtra("dirs", strconv.Itoa(w.dirs)).End("")
		return err
	})
	g.Go(func() error {
		_, buildSpan := trace.Start(gctx, trace.ScopeStage, "stage:map")
		defer buildSpan.End("")
		for p := range paths.All() {
			b.observe(p)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := b.freeze(abs, opts.Exclude)
	idx.stamps = w.stamps
	span.WithExtra("names", strconv.Itoa(idx.Len()))
	return idx, nil
}

type walker struct {
	root    string
	opts    Options
	rep     diag.Reporter
	out     *queue.Unbounded[string]
	dirs    int
	files   int
	stamps  map[string]dirState // listing of every directory read
	started time.Time
}

// run is an explicit-stack depth-first traversal; deep trees cannot blow
// the goroutine stack.
func (w *walker) run(ctx context.Context) error {
	stack := []string{w.root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// mtime before the listing: a change in between shows up as stale
		info, statErr := os.Stat(dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			diag.ReportWarning(w.rep, diag.IOReadDir, fmt.Sprintf("read_dir error for %q: %v", dir, err)).
				Path(dir).
				Emit()
			// os.ReadDir may return the entries it managed to read
			if len(entries) == 0 {
				continue
			}
		}
		w.dirs++
		if statErr == nil && err == nil {
			w.stamps[dir] = newDirState(info.ModTime(), w.started, entries)
		}

		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			typ := e.Type()
			switch {
			case typ.IsDir():
				if w.skipDir(e.Name(), path) {
					continue
				}
				stack = append(stack, path)
			case typ.IsRegular():
				w.emit(path)
			case typ&fs.ModeSymlink != 0:
				// symlinked files count, symlinked directories are not followed
				info, err := os.Stat(path)
				if err != nil {
					diag.ReportWarning(w.rep, diag.IOStatEntry, fmt.Sprintf("Failed to read from %q: %v", path, err)).
						Path(path).
						Emit()
					continue
				}
				if info.Mode().IsRegular() {
					w.emit(path)
				}
			}
		}
		if w.opts.Progress != nil {
			w.opts.Progress(Progress{Dirs: w.dirs, Files: w.files})
		}
	}
	return nil
}

func (w *walker) emit(path string) {
	w.files++
	w.out.Send(path)
}

func (w *walker) skipDir(name, path string) bool {
	if len(w.opts.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.opts.Exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}
	return nil
}
