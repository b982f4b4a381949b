package fuzztests

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"ccgen/internal/compdb"
	"ccgen/internal/logscan"
	"ccgen/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzConvertLog(f *testing.F) {
	addCorpusSeeds(f)
	m := logscan.NewMatcher("cl.exe")
	s := compdb.NewSynthesizer(nil)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		err := logscan.ReadLines(bytes.NewReader(input), func(l logscan.Line) error {
			if !m.Match(l.Text) {
				return nil
			}
			clean := logscan.Sanitize(l.Text)
			if strings.Contains(clean, `"`) {
				t.Fatalf("quote survived sanitize: %q", clean)
			}
			tokens := logscan.Tokenize(clean)
			cmd, d := s.Synthesize(tokens)
			if (d == nil) == (cmd.File == "") {
				t.Fatalf("exactly one of record or diagnostic expected: %+v, %v", cmd, d)
			}
			if d != nil {
				return nil
			}
			if err := testkit.CheckCommand(cmd); err != nil {
				t.Fatalf("invalid record: %v", err)
			}
			if !slices.Equal(cmd.Arguments, tokens) {
				t.Fatalf("arguments changed: %q vs %q", cmd.Arguments, tokens)
			}
			return nil
		})
		if err != nil {
			// only an over-long line can stop the reader
			if !strings.Contains(err.Error(), "token too long") {
				t.Fatalf("ReadLines: %v", err)
			}
		}
	})
}

func FuzzSplitPath(f *testing.F) {
	for _, s := range []string{"", "a.c", "/a.c", `C:\x\a.c`, "a/b\\c", "//", `\\server\share\x.cpp`, "src/a.c/"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, p string) {
		dir, name := compdb.SplitPath(p)
		if strings.ContainsAny(name, `/\`) {
			t.Fatalf("name %q contains a separator", name)
		}
		if !strings.HasSuffix(strings.TrimRight(p, `/\`), name) {
			t.Fatalf("name %q does not end %q", name, p)
		}
		if !strings.HasPrefix(p, dir) {
			t.Fatalf("dir %q is not a prefix of %q", dir, p)
		}
	})
}
