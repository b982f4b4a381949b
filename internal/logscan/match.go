package logscan

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher selects log lines that mention the compiler executable. The test is
// a case-insensitive substring search, so "cl.exe" also matches
// "mycl.exe.log"; that is accepted.
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	exe    string
	needle string
	fold   cases.Caser
}

// NewMatcher returns a Matcher for exe, e.g. "cl.exe".
func NewMatcher(exe string) *Matcher {
	fold := cases.Fold()
	return &Matcher{exe: exe, needle: fold.String(exe), fold: fold}
}

// Executable returns the name the matcher was built for.
func (m *Matcher) Executable() string { return m.exe }

// Match reports whether line contains the executable name, ignoring case.
func (m *Matcher) Match(line string) bool {
	return strings.Contains(m.fold.String(line), m.needle)
}
