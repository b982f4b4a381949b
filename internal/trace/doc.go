// Package trace provides a tracing subsystem for ccgen runs.
//
// The trace package records pipeline phases and stage goroutines so a slow or
// stuck conversion can be diagnosed after the fact.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	ccgen generate --trace=- --trace-level=stage -i msbuild.log -d src
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelPhase: Driver and phase boundaries (index, convert, write)
//   - LevelStage: Stage goroutines (filter, sanitize, tokenize, synthesize)
//   - LevelDebug: Everything including per-record events
//
// # Scopes
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopePhase: Two-phase run boundaries
//   - ScopeStage: One pipeline stage goroutine
//   - ScopeRecord: A single log line / record
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "index", parentID)
//	defer span.End("")
package trace
