package pipeline

import (
	"io"
	"time"

	"ccgen/internal/compdb"
	"ccgen/internal/diag"
	"ccgen/internal/index"
	"ccgen/internal/logscan"
	"ccgen/internal/observ"
)

// Stage names one step of a run.
type Stage string

const (
	// StageIndex walks the source tree.
	StageIndex Stage = "index"
	// StageFilter reads the log and keeps compiler lines.
	StageFilter Stage = "filter"
	// StageSanitize strips quotes.
	StageSanitize Stage = "sanitize"
	// StageTokenize splits lines into tokens.
	StageTokenize Stage = "tokenize"
	// StageSynthesize builds database records.
	StageSynthesize Stage = "synthesize"
	// StageWrite writes the database.
	StageWrite Stage = "write"
)

// Stages lists every stage in run order.
var Stages = []Stage{StageIndex, StageFilter, StageSanitize, StageTokenize, StageSynthesize, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the stage has not started.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running; Count is its running total.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage stopped with an error.
	StatusError Status = "error"
)

// Event reports progress of one stage. Count is stage specific: directories
// for index, lines read for filter, items handled for the other stages.
type Event struct {
	Stage   Stage
	Status  Status
	Count   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from the stage
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// Request describes one conversion.
type Request struct {
	LogPath    string
	OutputPath string
	SourceRoot string
	Compiler   string

	// Exclude holds directory globs skipped while indexing.
	Exclude []string
	// IndexCache is the msgpack cache file; empty disables it.
	IndexCache   string
	RefreshIndex bool
	// Unique drops records identical to an earlier one.
	Unique bool

	// Reporter receives every diagnostic, one at a time, from the sink
	// goroutine. Nil discards them.
	Reporter diag.Reporter
	Progress ProgressSink
	Timer    *observ.Timer
	// Warnings receives notices about the run itself, such as a Reporter
	// that panicked. Nil means os.Stderr.
	Warnings io.Writer
}

// Result summarises a finished run.
type Result struct {
	Output      string
	Index       index.Stats
	Scan        logscan.ScanStats
	Synth       compdb.SynthStats
	Duplicates  int
	Written     int
	Diagnostics diag.Stats
	Timings     Timings
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
