package logscan

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"ccgen/internal/diag"
	"ccgen/internal/queue"
	"ccgen/internal/trace"
)

// ScanStats counts what the filter stage saw.
type ScanStats struct {
	Read    int
	Matched int
}

// progressEvery is how many lines pass between progress callbacks.
const progressEvery = 1024

// FilterStage reads the log from r and sends every line accepted by m to out,
// in read order. out is closed when the stage returns.
//
// A read error in the middle of the log is reported to rep and ends the
// stage normally: whatever was read so far is still converted. The only
// error returned is a cancelled ctx. progress may be nil.
func FilterStage(ctx context.Context, r io.Reader, m *Matcher, out *queue.Unbounded[Line], rep diag.Reporter, progress func(ScanStats)) (ScanStats, error) {
	defer out.Close()
	_, span := trace.Start(ctx, trace.ScopeStage, "stage:filter")

	var st ScanStats
	err := ReadLines(r, func(l Line) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.Read++
		if m.Match(l.Text) {
			st.Matched++
			out.Send(l)
		}
		if progress != nil && st.Read%progressEvery == 0 {
			progress(st)
		}
		return nil
	})
	if progress != nil {
		progress(st)
	}
	span.WithExtra("read", strconv.Itoa(st.Read)).
		WithExtra("matched", strconv.Itoa(st.Matched)).
		End("")

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return st, ctxErr
		}
		if rep != nil {
			diag.ReportError(rep, diag.IOReadLog, fmt.Sprintf("failed to read build log: %v", err)).
				Line(st.Read + 1).
				Emit()
		}
	}
	return st, nil
}

// SanitizeStage strips quotes from every line in in and forwards it to out.
// It returns the number of lines forwarded.
func SanitizeStage(ctx context.Context, in *queue.Unbounded[Line], out *queue.Unbounded[Line]) (int, error) {
	defer out.Close()
	_, span := trace.Start(ctx, trace.ScopeStage, "stage:sanitize")
	defer span.End("")

	n := 0
	for l := range in.All() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		l.Text = Sanitize(l.Text)
		out.Send(l)
		n++
	}
	return n, nil
}

// TokenizeStage splits every line in in and forwards the tokens to out.
// It returns the number of token lists forwarded.
func TokenizeStage(ctx context.Context, in *queue.Unbounded[Line], out *queue.Unbounded[Tokens]) (int, error) {
	defer out.Close()
	_, span := trace.Start(ctx, trace.ScopeStage, "stage:tokenize")
	defer span.End("")

	n := 0
	for l := range in.All() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		out.Send(Tokens{Line: l.No, Args: Tokenize(l.Text)})
		n++
	}
	return n, nil
}
