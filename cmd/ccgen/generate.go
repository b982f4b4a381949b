package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ccgen/internal/config"
	"ccgen/internal/diag"
	"ccgen/internal/observ"
	"ccgen/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Convert a build log into compile_commands.json",
		Example: `  ccgen generate -i msbuild.log -d C:\src\project
  ccgen -i build.log -d src -o out/compile_commands.json --unique`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input-file", "i", "", "path to msbuild.log")
	f.StringP("output-file", "o", config.DefaultOutput, "output JSON file")
	f.StringP("source-directory", "d", "", "path to source code")
	f.StringP("compiler-executable", "c", config.DefaultCompiler, "name of compiler executable")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.String("index-cache", "", "reuse the source index from this file")
	f.Bool("refresh-index", false, "rebuild the index cache")
	f.StringArray("exclude", nil, "skip directories matching this glob (repeatable)")
	f.Bool("unique", false, "drop records identical to an earlier one")
	f.String("diagnostics-format", "pretty", "diagnostics format (pretty|json)")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("diagnostics-format")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics-format flag: %w", err)
	}
	refresh, err := cmd.Flags().GetBool("refresh-index")
	if err != nil {
		return fmt.Errorf("failed to get refresh-index flag: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	out, err := newDiagOutput(errOut, format, opts)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	req := &pipeline.Request{
		LogPath:      settings.LogPath,
		OutputPath:   settings.OutputPath,
		SourceRoot:   settings.SourceRoot,
		Compiler:     settings.Compiler,
		Exclude:      settings.Exclude,
		IndexCache:   settings.IndexCache,
		RefreshIndex: refresh,
		Unique:       settings.Unique,
		Reporter:     out,
		Timer:        timer,
		Warnings:     cmd.ErrOrStderr(),
	}

	var res pipeline.Result
	if !opts.quiet && shouldUseTUI(mode) {
		// the progress view owns the terminal until the run ends
		held := diag.NewBag(0)
		req.Reporter = diag.BagReporter{Bag: held}
		res, err = runWithUI(cmd.Context(), "ccgen "+settings.OutputPath, req)
		out.replay(held)
	} else {
		res, err = pipeline.Run(cmd.Context(), req)
	}
	out.printSuppressed(errOut)
	if err != nil {
		return err
	}

	if !opts.quiet {
		printSummary(cmd.OutOrStdout(), res)
	}
	if opts.timings {
		printStageTimings(cmd.OutOrStdout(), res.Timings)
	}
	return nil
}

func printSummary(w io.Writer, res pipeline.Result) {
	fmt.Fprintf(w, "indexed %d files (%d unique names, %d ambiguous)\n",
		res.Index.Files, res.Index.Unique, res.Index.Ambiguous)
	fmt.Fprintf(w, "scanned %d lines, %d matched\n", res.Scan.Read, res.Scan.Matched)
	line := fmt.Sprintf("wrote %d records to %s", res.Written, res.Output)
	if res.Synth.Rejected > 0 {
		line += fmt.Sprintf(", %d rejected", res.Synth.Rejected)
	}
	if res.Duplicates > 0 {
		line += fmt.Sprintf(", %d duplicates dropped", res.Duplicates)
	}
	fmt.Fprintln(w, line)
	if res.Diagnostics.Total() > 0 {
		fmt.Fprintf(w, "diagnostics: %s\n", res.Diagnostics)
	}
}
