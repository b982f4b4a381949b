package diagfmt

// PathMode specifies how origin paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths as they were reported.
	PathModeAuto PathMode = iota
	// PathModeBasename prints only the last path element.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	Max      int // 0 - не ограничено
}

// JSONOpts configures NDJSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	Max      int
}
