package diag

import "fmt"

// Stats counts diagnostics by severity.
type Stats struct {
	Info    int
	Warning int
	Error   int
}

func (s Stats) Total() int {
	return s.Info + s.Warning + s.Error
}

func (s *Stats) add(sev Severity) {
	switch sev {
	case SevInfo:
		s.Info++
	case SevWarning:
		s.Warning++
	default:
		s.Error++
	}
}

// Merge returns the element-wise sum of s and other.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		Info:    s.Info + other.Info,
		Warning: s.Warning + other.Warning,
		Error:   s.Error + other.Error,
	}
}

// Sink is the single consumer of a Queue. It forwards each diagnostic to Out
// in the order received and never fails: a panicking Out is recovered and the
// next diagnostic is still delivered.
type Sink struct {
	Out Reporter
	// OnPanic, when set, is told about a recovered panic from Out.
	OnPanic func(d Diagnostic, recovered any)
}

// Run drains q until it closes and returns per-severity counts.
func (s *Sink) Run(q *Queue) Stats {
	var stats Stats
	for {
		d, ok := q.Recv()
		if !ok {
			return stats
		}
		stats.add(d.Severity)
		s.deliver(d)
	}
}

func (s *Sink) deliver(d Diagnostic) {
	if s == nil || s.Out == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && s.OnPanic != nil {
			s.OnPanic(d, r)
		}
	}()
	s.Out.Report(d)
}

// Start runs the sink on its own goroutine. The returned channel yields the
// final Stats once q has closed.
func (s *Sink) Start(q *Queue) <-chan Stats {
	done := make(chan Stats, 1)
	go func() {
		done <- s.Run(q)
	}()
	return done
}

func (s Stats) String() string {
	return fmt.Sprintf("%d error(s), %d warning(s), %d info", s.Error, s.Warning, s.Info)
}
