// Package pipeline runs a conversion: index the source tree, then stream the
// build log through filter, sanitize, tokenize and synthesize stages into a
// compilation database.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ccgen/internal/compdb"
	"ccgen/internal/diag"
	"ccgen/internal/index"
	"ccgen/internal/logscan"
	"ccgen/internal/observ"
	"ccgen/internal/queue"
	"ccgen/internal/trace"
)

// DefaultCompiler is matched when Request.Compiler is empty.
const DefaultCompiler = "cl.exe"

// ErrNotDirectory is returned when the source root is not a directory.
var ErrNotDirectory = index.ErrNotDirectory

// Run executes req. Fatal problems (unreadable log, uncreatable output,
// bad source root) are returned before any work starts. Everything else is
// reported as diagnostics and the database is still written.
//
// Indexing finishes completely before the log is read. On a cancelled ctx
// the stages stop, the previous output file is left untouched and ctx.Err()
// is returned.
func Run(ctx context.Context, req *Request) (Result, error) {
	var res Result
	if req == nil {
		return res, errors.New("pipeline: nil request")
	}
	compiler := req.Compiler
	if compiler == "" {
		compiler = DefaultCompiler
	}

	// #nosec G304 -- the log path is a user argument
	logFile, err := os.Open(req.LogPath)
	if err != nil {
		return res, fmt.Errorf("failed to open %q: %w", req.LogPath, err)
	}
	defer logFile.Close()

	root, err := index.CheckRoot(req.SourceRoot)
	if err != nil {
		return res, err
	}

	out, err := compdb.CreateOutput(req.OutputPath)
	if err != nil {
		return res, err
	}
	defer out.Abort()
	res.Output = req.OutputPath

	r := &runner{req: req, timer: req.Timer}
	if r.timer == nil {
		r.timer = observ.NewTimer()
	}
	for _, st := range Stages {
		r.emit(Event{Stage: st, Status: StatusQueued})
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "ccgen")
	defer span.End("")

	idx, dstats, err := r.indexPhase(ctx, root)
	res.Diagnostics = dstats
	if err != nil {
		return res, err
	}
	res.Index = idx.Stats()

	records, pstats, err := r.convertPhase(ctx, logFile, idx, compiler, &res)
	res.Diagnostics = res.Diagnostics.Merge(pstats)
	if err != nil {
		return res, err
	}

	cmds := compdb.Commands(records)
	err = r.run(StageWrite, func() (int, error) {
		return len(cmds), out.Commit(cmds)
	})
	if err != nil {
		return res, err
	}
	res.Written = len(cmds)
	res.Timings = r.timings()
	span.WithExtra("written", strconv.Itoa(res.Written))
	return res, nil
}

type runner struct {
	req   *Request
	timer *observ.Timer

	mu  sync.Mutex
	dur Timings
}

func (r *runner) emit(ev Event) {
	if r.req.Progress != nil {
		r.req.Progress.OnEvent(ev)
	}
}

func (r *runner) timings() Timings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dur
}

// run wraps one stage body with timing and progress events. fn returns the
// stage's final count.
func (r *runner) run(stage Stage, fn func() (int, error)) error {
	r.emit(Event{Stage: stage, Status: StatusWorking})
	idx := r.timer.Begin(string(stage))
	start := time.Now()

	n, err := fn()

	elapsed := time.Since(start)
	r.timer.End(idx, strconv.Itoa(n))
	r.mu.Lock()
	r.dur.Set(stage, elapsed)
	r.mu.Unlock()

	ev := Event{Stage: stage, Status: StatusDone, Count: n, Elapsed: elapsed}
	if err != nil {
		ev.Status = StatusError
		ev.Err = err
	}
	r.emit(ev)
	return err
}

func (r *runner) progress(stage Stage) func(int) {
	if r.req.Progress == nil {
		return nil
	}
	return func(n int) {
		r.emit(Event{Stage: stage, Status: StatusWorking, Count: n})
	}
}

// startSink wires a fresh diagnostic queue to the request's reporter.
func (r *runner) startSink() (*diag.Queue, <-chan diag.Stats) {
	q := diag.NewQueue()
	s := &diag.Sink{Out: r.req.Reporter, OnPanic: r.reporterPanicked}
	return q, s.Start(q)
}

// reporterPanicked runs on the sink goroutine; the diagnostic is lost but
// the run goes on.
func (r *runner) reporterPanicked(d diag.Diagnostic, recovered any) {
	w := r.req.Warnings
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "warning: diagnostic reporter panicked on %s: %v\n", d.Code.ID(), recovered)
}

// indexPhase builds the index and waits for its diagnostics to drain.
func (r *runner) indexPhase(ctx context.Context, root string) (*index.Index, diag.Stats, error) {
	q, done := r.startSink()
	p := q.Producer()

	var idx *index.Index
	opts := index.Options{Exclude: r.req.Exclude}
	if tick := r.progress(StageIndex); tick != nil {
		opts.Progress = func(pr index.Progress) { tick(pr.Dirs) }
	}
	cache := index.CacheOptions{Path: r.req.IndexCache, Refresh: r.req.RefreshIndex}
	err := r.run(StageIndex, func() (int, error) {
		defer p.Close()
		var err error
		idx, err = index.BuildCached(ctx, root, opts, cache, p)
		return idx.Len(), err
	})
	stats := <-done
	return idx, stats, err
}

// convertPhase streams the log through the stages and collects records in
// arrival order.
func (r *runner) convertPhase(ctx context.Context, log *os.File, idx *index.Index, compiler string, res *Result) ([]compdb.Record, diag.Stats, error) {
	ctx, span := trace.Start(ctx, trace.ScopePhase, "convert")
	defer span.End("")

	q, done := r.startSink()
	// every producer is registered before any stage can close its own
	filterRep := q.Producer()
	synthRep := q.Producer()
	collectRep := q.Producer()

	matched := queue.NewUnbounded[logscan.Line]()
	clean := queue.NewUnbounded[logscan.Line]()
	tokens := queue.NewUnbounded[logscan.Tokens]()
	records := queue.NewUnbounded[compdb.Record]()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer filterRep.Close()
		var tick func(logscan.ScanStats)
		if p := r.progress(StageFilter); p != nil {
			tick = func(st logscan.ScanStats) { p(st.Read) }
		}
		return r.run(StageFilter, func() (int, error) {
			st, err := logscan.FilterStage(gctx, log, logscan.NewMatcher(compiler), matched, filterRep, tick)
			res.Scan = st
			return st.Read, err
		})
	})
	g.Go(func() error {
		return r.run(StageSanitize, func() (int, error) {
			return logscan.SanitizeStage(gctx, matched, clean)
		})
	})
	g.Go(func() error {
		return r.run(StageTokenize, func() (int, error) {
			return logscan.TokenizeStage(gctx, clean, tokens)
		})
	})
	g.Go(func() error {
		defer synthRep.Close()
		return r.run(StageSynthesize, func() (int, error) {
			st, err := compdb.SynthesizeStage(gctx, compdb.NewSynthesizer(idx), tokens, records, synthRep)
			res.Synth = st
			return st.Emitted + st.Rejected, err
		})
	})

	var dedup *compdb.Deduper
	if r.req.Unique {
		dedup = compdb.NewDeduper()
	}
	var collected []compdb.Record
	for rec := range records.All() {
		if dedup != nil && !dedup.Keep(rec, collectRep) {
			continue
		}
		collected = append(collected, rec)
	}
	collectRep.Close()

	err := g.Wait()
	stats := <-done
	if dedup != nil {
		res.Duplicates = dedup.Dropped
	}
	span.WithExtra("records", strconv.Itoa(len(collected)))
	if err != nil {
		return nil, stats, err
	}
	return collected, stats, nil
}
