package diag

func New(sev Severity, code Code, origin Origin, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Origin:   origin,
		Message:  msg,
	}
}

func NewError(code Code, origin Origin, msg string) Diagnostic {
	return New(SevError, code, origin, msg)
}

func NewWarning(code Code, origin Origin, msg string) Diagnostic {
	return New(SevWarning, code, origin, msg)
}

func NewInfo(code Code, origin Origin, msg string) Diagnostic {
	return New(SevInfo, code, origin, msg)
}

// AtLine returns a copy of d pointing at a build-log line.
func (d Diagnostic) AtLine(line int) Diagnostic {
	d.Origin.Line = line
	return d
}
