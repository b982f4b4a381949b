package compdb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteJSON writes cmds as a pretty-printed JSON array with two-space
// indentation. No commands yield "[]".
func WriteJSON(w io.Writer, cmds []Command) error {
	if cmds == nil {
		cmds = []Command{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(cmds)
}

// Output is a compilation database being written. The destination is
// replaced only by Commit; until then a previous file stays intact.
type Output struct {
	path string
	f    *os.File
}

// CreateOutput opens a temporary file next to path. It fails early when the
// destination directory is missing or not writable.
func CreateOutput(path string) (*Output, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("failed to open %q: is a directory", path)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return &Output{path: path, f: f}, nil
}

// Path returns the final destination.
func (o *Output) Path() string { return o.path }

// Commit writes cmds and moves the file into place.
func (o *Output) Commit(cmds []Command) error {
	if o.f == nil {
		return fmt.Errorf("write %q: output already closed", o.path)
	}
	f := o.f
	o.f = nil
	tmp := f.Name()

	err := WriteJSON(f, cmds)
	if err == nil {
		// CreateTemp makes the file 0600
		err = f.Chmod(0o644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, o.path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %q: %w", o.path, err)
	}
	return nil
}

// Abort discards the temporary file. It does nothing after Commit.
func (o *Output) Abort() {
	if o == nil || o.f == nil {
		return
	}
	_ = o.f.Close()
	_ = os.Remove(o.f.Name())
	o.f = nil
}

// WriteFile writes cmds to path atomically.
func WriteFile(path string, cmds []Command) error {
	o, err := CreateOutput(path)
	if err != nil {
		return err
	}
	return o.Commit(cmds)
}

// Commands strips the log lines from rs.
func Commands(rs []Record) []Command {
	cmds := make([]Command, len(rs))
	for i, r := range rs {
		cmds[i] = r.Command
	}
	return cmds
}
