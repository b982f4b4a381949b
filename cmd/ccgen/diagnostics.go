package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ccgen/internal/diag"
	"ccgen/internal/diagfmt"
)

// outputOptions are the root flags that shape what is printed.
type outputOptions struct {
	color   bool
	quiet   bool
	timings bool
	max     int
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	pf := cmd.Root().PersistentFlags()
	var opts outputOptions
	colorFlag, err := pf.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.color, err = readColorMode(colorFlag, os.Stderr); err != nil {
		return opts, err
	}
	if opts.quiet, err = pf.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = pf.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.max, err = pf.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.max < 0 {
		return opts, fmt.Errorf("--max-diagnostics must be >= 0")
	}
	return opts, nil
}

// diagOutput prints diagnostics in the selected format.
type diagOutput struct {
	diag.Reporter
	suppressed func() int
}

func newDiagOutput(w io.Writer, format string, opts outputOptions) (*diagOutput, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pretty":
		p := diagfmt.NewPrinter(w, diagfmt.PrettyOpts{Color: opts.color, Max: opts.max})
		return &diagOutput{Reporter: diag.NewDedupReporter(p), suppressed: p.Suppressed}, nil
	case "json":
		j := diagfmt.NewJSONWriter(w, diagfmt.JSONOpts{Max: opts.max})
		return &diagOutput{Reporter: diag.NewDedupReporter(j), suppressed: j.Suppressed}, nil
	default:
		return nil, fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", format)
	}
}

// replay prints diagnostics that were held back while the UI owned the
// terminal.
func (o *diagOutput) replay(bag *diag.Bag) {
	for _, d := range bag.Items() {
		o.Report(d)
	}
}

func (o *diagOutput) printSuppressed(w io.Writer) {
	if n := o.suppressed(); n > 0 {
		fmt.Fprintf(w, "%d more diagnostic(s) not shown (--max-diagnostics)\n", n)
	}
}
