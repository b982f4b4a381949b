package diag

import (
	"fmt"
	"strconv"
)

// Origin identifies the input a diagnostic is about: a path on disk, a line
// of the build log, or both. Line is 1-based; zero means "no line".
type Origin struct {
	Path string
	Line int
}

func (o Origin) IsZero() bool {
	return o.Path == "" && o.Line == 0
}

func (o Origin) String() string {
	switch {
	case o.Path != "" && o.Line > 0:
		return o.Path + ":" + strconv.Itoa(o.Line)
	case o.Path != "":
		return o.Path
	case o.Line > 0:
		return "line " + strconv.Itoa(o.Line)
	}
	return "-"
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Origin   Origin
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Severity.Label(), d.Code.ID(), d.Origin, d.Message)
}
