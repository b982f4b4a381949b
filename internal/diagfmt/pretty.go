// Package diagfmt renders diagnostics for humans and machines.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"

	"ccgen/internal/diag"
)

// Printer writes one line per diagnostic:
//
//	<sev> <CODE> <origin>: <message>
//
// It implements diag.Reporter. Write errors are swallowed: reporting must not
// be able to stop the pipeline.
type Printer struct {
	mu         sync.Mutex
	w          io.Writer
	opts       PrettyOpts
	printed    int
	suppressed int

	sevColors map[diag.Severity]*color.Color
	codeColor *color.Color
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, opts PrettyOpts) *Printer {
	p := &Printer{
		w:    w,
		opts: opts,
		sevColors: map[diag.Severity]*color.Color{
			diag.SevInfo:    color.New(color.FgCyan),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
		},
		codeColor: color.New(color.Faint),
	}
	for _, c := range p.sevColors {
		setColor(c, opts.Color)
	}
	setColor(p.codeColor, opts.Color)
	return p
}

func setColor(c *color.Color, on bool) {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

func (p *Printer) Report(d diag.Diagnostic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opts.Max > 0 && p.printed >= p.opts.Max {
		p.suppressed++
		return
	}
	p.printed++

	sev := d.Severity.Label()
	if c, ok := p.sevColors[d.Severity]; ok {
		sev = c.Sprint(sev)
	}
	line := fmt.Sprintf("%s %s %s: %s\n",
		sev,
		p.codeColor.Sprint(d.Code.ID()),
		formatOrigin(d.Origin, p.opts.PathMode),
		oneLine(d.Message),
	)
	_, _ = io.WriteString(p.w, line)
}

// Suppressed returns how many diagnostics were not printed because of Max.
func (p *Printer) Suppressed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suppressed
}

// Printed returns how many diagnostics were written.
func (p *Printer) Printed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printed
}

func formatOrigin(o diag.Origin, mode PathMode) string {
	if mode == PathModeBasename && o.Path != "" {
		o.Path = filepath.Base(o.Path)
	}
	return o.String()
}

func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
