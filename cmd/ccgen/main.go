package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccgen/internal/version"
)

// newRootCmd builds the command tree. Running the root without a
// subcommand behaves like "ccgen generate".
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ccgen",
		Short: "Generate compile_commands.json from an msbuild log",
		Long: `ccgen scans a build log for compiler invocations and writes a
compile_commands.json database. Source files named without a directory are
located by indexing the source tree.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: preRun,
		RunE:              runGenerate,
	}
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = all)")
	pf.String("trace", "", "write a trace to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|stage|debug)")
	pf.String("config", "", "path to ccgen.toml (default: search upwards from the working directory)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if err := setupTracing(cmd, args); err != nil {
		return err
	}
	return setupProfiling(cmd)
}

// main executes the root command with a context cancelled on interrupt.
// If command execution returns an error, the process exits with status code 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	closeTracing()
	if perr := stopProfiling(); perr != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", perr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
