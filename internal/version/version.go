package version

import (
	"regexp"

	"github.com/fatih/color"
)

// Version information for the ccgen CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("3") + "." + versionPatchColor.Sprint("1")

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Plain returns Version without color escape sequences.
func Plain() string {
	return ansiSeq.ReplaceAllString(Version, "")
}
