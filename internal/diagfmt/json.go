package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sync"

	"ccgen/internal/diag"
)

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// MakeJSON converts d to its JSON shape.
func MakeJSON(d diag.Diagnostic, mode PathMode) DiagnosticJSON {
	path := d.Origin.Path
	if mode == PathModeBasename && path != "" {
		path = filepath.Base(path)
	}
	return DiagnosticJSON{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Path:     path,
		Line:     d.Origin.Line,
	}
}

// JSONWriter emits newline-delimited JSON, one object per diagnostic. It
// implements diag.Reporter.
type JSONWriter struct {
	mu         sync.Mutex
	enc        *json.Encoder
	opts       JSONOpts
	written    int
	suppressed int
}

// NewJSONWriter returns a JSONWriter writing to w.
func NewJSONWriter(w io.Writer, opts JSONOpts) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w), opts: opts}
}

func (j *JSONWriter) Report(d diag.Diagnostic) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.opts.Max > 0 && j.written >= j.opts.Max {
		j.suppressed++
		return
	}
	j.written++
	_ = j.enc.Encode(MakeJSON(d, j.opts.PathMode))
}

// Suppressed returns how many diagnostics were not written because of Max.
func (j *JSONWriter) Suppressed() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.suppressed
}
