// Package compdb builds compile_commands.json records from token lists and
// writes the database.
package compdb

// Command is one entry of a compilation database. Field order matches the
// order the keys are written in.
type Command struct {
	File      string   `json:"file"`
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
}

// Record is a Command tagged with the build-log line it came from.
type Record struct {
	Line    int
	Command Command
}
