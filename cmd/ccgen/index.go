package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ccgen/internal/index"
	"ccgen/internal/observ"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Index a source tree and report ambiguous file names",
		Long: `index walks the source tree the way generate does and reports how many
file names resolve to a single directory. Ambiguous names cannot be resolved
for log lines that omit the directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIndex,
	}
	cmd.Flags().StringP("source-directory", "d", "", "path to source code")
	cmd.Flags().StringArray("exclude", nil, "skip directories matching this glob (repeatable)")
	cmd.Flags().String("index-cache", "", "save the index to this file")
	cmd.Flags().Bool("list-ambiguous", false, "print every ambiguous file name")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		settings.SourceRoot = args[0]
	}
	if settings.SourceRoot == "" {
		return fmt.Errorf("no source directory given (argument, --source-directory or [source].root)")
	}
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list-ambiguous")
	if err != nil {
		return fmt.Errorf("failed to get list-ambiguous flag: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	diags, err := newDiagOutput(errOut, "pretty", opts)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	var idx *index.Index
	timer.Measure("index", func() string {
		idx, err = index.Build(cmd.Context(), settings.SourceRoot, index.Options{Exclude: settings.Exclude}, diags)
		return strconv.Itoa(idx.Len())
	})
	diags.printSuppressed(errOut)
	if err != nil {
		return err
	}
	if settings.IndexCache != "" {
		timer.Measure("save", func() string {
			err = index.SaveCache(settings.IndexCache, idx)
			return settings.IndexCache
		})
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	st := idx.Stats()
	if !opts.quiet {
		fmt.Fprintf(out, "%s: %d files, %d names (%d unique, %d ambiguous)\n",
			idx.Root(), st.Files, st.Names, st.Unique, st.Ambiguous)
	}
	if list {
		for _, name := range idx.Ambiguous() {
			fmt.Fprintln(out, name)
		}
	}
	if opts.timings {
		fmt.Fprint(out, timer.Summary())
	}
	return nil
}
