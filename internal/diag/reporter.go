package diag

// Reporter: минимальный контракт получения диагностик от стадий.
// Реализации: BagReporter (кладёт в Bag), Queue (очередь для Sink),
// DedupReporter, MultiReporter (fan-out), NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportFunc adapts a function to Reporter.
type ReportFunc func(d Diagnostic)

func (f ReportFunc) Report(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, msg)
}

// Path sets the path part of the origin.
func (b *ReportBuilder) Path(p string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Origin.Path = p
	return b
}

// Line sets the build-log line of the origin.
func (b *ReportBuilder) Line(n int) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Origin.Line = n
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// MultiReporter forwards every diagnostic to each of its reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

type nopReporter struct{}

func (nopReporter) Report(Diagnostic) {}

// NopReporter discards everything.
var NopReporter Reporter = nopReporter{}
