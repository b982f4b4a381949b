// Package diag defines the diagnostic model shared by every ccgen stage.
//
// # Purpose
//
//   - Describe recoverable problems (an unreadable directory, a log line whose
//     file cannot be resolved) as data instead of errors, so a stage can report
//     and carry on.
//   - Offer light-weight utilities (Reporter, Bag, Queue, Sink) that let
//     producers emit diagnostics without coupling to formatting or IO.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Ranges: IO 1xxx, IDX 2xxx, SYN 3xxx, OBS 4xxx.
//   - Message – short human text.
//   - Origin – the input that caused it: a path, a build-log line, or both.
//
// # Flow
//
// Stages report into a Queue through their own Producer. Exactly one Sink
// drains the queue and hands diagnostics to the renderer in internal/diagfmt.
// Sends never block, and the Sink terminates once every producer is closed.
// Diagnostics are not retained after the Sink delivers them unless the caller
// chains a BagReporter behind it.
package diag
