package diagfmt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"ccgen/internal/diag"
)

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrettyOpts{})
	p.Report(diag.NewError(diag.SynDuplicateEntries, diag.Origin{Path: "msbuild.log", Line: 42}, "Duplicate entries found for \"util.cpp\""))
	p.Report(diag.NewWarning(diag.IOReadDir, diag.Origin{Path: "/src/locked"}, "read_dir error:\npermission denied"))

	want := "error SYN3005 msbuild.log:42: Duplicate entries found for \"util.cpp\"\n" +
		"warning IO1002 /src/locked: read_dir error: permission denied\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrettyOpts{Color: true})
	p.Report(diag.NewError(diag.SynNoExtension, diag.Origin{Line: 1}, "Expected file extension"))
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", buf.String())
	}
}

func TestPrinterMax(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrettyOpts{Max: 2, PathMode: PathModeBasename})
	for i := 0; i < 5; i++ {
		p.Report(diag.NewInfo(diag.ObsDuplicateRecord, diag.Origin{Path: "/a/b/msbuild.log", Line: i + 1}, "dup"))
	}
	if p.Printed() != 2 || p.Suppressed() != 3 {
		t.Fatalf("printed=%d suppressed=%d", p.Printed(), p.Suppressed())
	}
	if !strings.HasPrefix(buf.String(), "info OBS4001 msbuild.log:1: dup\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrinterIgnoresWriteErrors(t *testing.T) {
	p := NewPrinter(failingWriter{}, PrettyOpts{})
	p.Report(diag.NewError(diag.SynEmptyTokens, diag.Origin{}, "x"))
	if p.Printed() != 1 {
		t.Fatalf("expected the diagnostic to count as printed")
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, JSONOpts{})
	w.Report(diag.NewError(diag.SynPathNotFound, diag.Origin{Path: "build.log", Line: 3}, "Path not found for \"a.cpp\""))
	w.Report(diag.NewWarning(diag.IOReadDir, diag.Origin{Path: "/src/x"}, "denied"))

	sc := bufio.NewScanner(&buf)
	var got []DiagnosticJSON
	for sc.Scan() {
		var d DiagnosticJSON
		if err := json.Unmarshal(sc.Bytes(), &d); err != nil {
			t.Fatalf("invalid json line %q: %v", sc.Text(), err)
		}
		got = append(got, d)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].Code != "SYN3004" || got[0].Line != 3 || got[0].Severity != "error" || got[0].Title != "Path not found" {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[1].Line != 0 || got[1].Path != "/src/x" {
		t.Fatalf("unexpected second entry %+v", got[1])
	}
}
