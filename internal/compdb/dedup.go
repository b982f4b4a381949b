package compdb

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"ccgen/internal/diag"
)

// Deduper drops records identical to one seen before. Records are compared
// by a 128-bit fingerprint of file, directory and arguments.
type Deduper struct {
	seen    map[xxh3.Uint128]int
	Dropped int
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[xxh3.Uint128]int)}
}

// Fingerprint hashes the fields of c. Fields are NUL-separated, which cannot
// occur inside a log line, so different field splits never collide.
func Fingerprint(c Command) xxh3.Uint128 {
	h := xxh3.New()
	_, _ = h.WriteString(c.File)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(c.Directory)
	for _, a := range c.Arguments {
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(a)
	}
	return h.Sum128()
}

// Keep reports whether r is new. A duplicate is reported to rep with the line
// of the first occurrence.
func (d *Deduper) Keep(r Record, rep diag.Reporter) bool {
	fp := Fingerprint(r.Command)
	first, dup := d.seen[fp]
	if !dup {
		d.seen[fp] = r.Line
		return true
	}
	d.Dropped++
	if rep != nil {
		diag.ReportInfo(rep, diag.ObsDuplicateRecord,
			fmt.Sprintf("record for %q repeats line %d", r.Command.File, first)).
			Line(r.Line).
			Emit()
	}
	return false
}
