package compdb

import (
	"context"
	"strconv"

	"ccgen/internal/diag"
	"ccgen/internal/logscan"
	"ccgen/internal/queue"
	"ccgen/internal/trace"
)

// SynthStats counts the outcome of the synthesize stage.
type SynthStats struct {
	Emitted  int
	Rejected int
}

// SynthesizeStage converts every token list from in and sends the result to
// out, or a diagnostic pointing at the log line to rep. out is closed when
// the stage returns.
func SynthesizeStage(ctx context.Context, s *Synthesizer, in *queue.Unbounded[logscan.Tokens], out *queue.Unbounded[Record], rep diag.Reporter) (SynthStats, error) {
	defer out.Close()
	tr := trace.FromContext(ctx)
	_, span := trace.Start(ctx, trace.ScopeStage, "stage:synthesize")
	var st SynthStats
	defer func() {
		span.WithExtra("emitted", strconv.Itoa(st.Emitted)).
			WithExtra("rejected", strconv.Itoa(st.Rejected)).
			End("")
	}()

	for tk := range in.All() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		cmd, d := s.Synthesize(tk.Args)
		if d != nil {
			st.Rejected++
			trace.Point(tr, trace.ScopeRecord, "reject", d.Code.ID()+" line "+strconv.Itoa(tk.Line), span.ID())
			if rep != nil {
				rep.Report(d.AtLine(tk.Line))
			}
			continue
		}
		st.Emitted++
		trace.Point(tr, trace.ScopeRecord, "record", cmd.File+" line "+strconv.Itoa(tk.Line), span.ID())
		out.Send(Record{Line: tk.Line, Command: cmd})
	}
	return st, nil
}
