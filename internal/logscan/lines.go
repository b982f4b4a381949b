package logscan

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineSize bounds a single log line. msbuild command lines with long
// include lists run to tens of kilobytes.
const MaxLineSize = 16 << 20

// Line is one line of the build log. No is 1-based.
type Line struct {
	No   int
	Text string
}

// NewDecoder wraps r so that UTF-16 input with a byte order mark comes out as
// UTF-8. Anything else is treated as UTF-8; invalid sequences become U+FFFD
// and a UTF-8 BOM is dropped.
func NewDecoder(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadLines decodes r and calls fn for every line without its terminator.
// Reading stops at the first error from fn, which is returned unchanged.
func ReadLines(r io.Reader, fn func(Line) error) error {
	sc := bufio.NewScanner(NewDecoder(r))
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(Line{No: n, Text: sc.Text()}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("line %d: %w", n+1, err)
	}
	return nil
}
