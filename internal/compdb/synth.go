package compdb

import (
	"fmt"

	"ccgen/internal/diag"
	"ccgen/internal/index"
)

// Synthesizer turns token lists into Commands. It only reads the index and
// may be shared between goroutines.
type Synthesizer struct {
	idx *index.Index
}

// NewSynthesizer returns a Synthesizer that resolves bare file names with
// idx. A nil idx resolves nothing.
func NewSynthesizer(idx *index.Index) *Synthesizer {
	return &Synthesizer{idx: idx}
}

// Synthesize validates tokens and builds a Command. Exactly one of the
// results is meaningful: on rejection the Diagnostic is non-nil and the
// Command is zero. The diagnostic has no origin line; callers add it.
//
// Checks run in order and the first failure wins: the list must not be
// empty, its last token must end in a file name, and that name must have
// an extension. A directory written in the token is used verbatim and the
// index is not consulted; otherwise the name must be unique in the index.
func (s *Synthesizer) Synthesize(tokens []string) (Command, *diag.Diagnostic) {
	if len(tokens) == 0 {
		return reject(diag.SynEmptyTokens, "Token vector is empty!")
	}
	last := tokens[len(tokens)-1]
	dir, name := SplitPath(last)
	if !validFileName(name) {
		return reject(diag.SynNoFileName, fmt.Sprintf("Expected file name as last token in %q", tokens))
	}
	if !index.HasExtension(name) {
		return reject(diag.SynNoExtension, fmt.Sprintf("Expected file extension in %q", last))
	}

	if dir == "" {
		e := s.idx.Lookup(name)
		switch e.State {
		case index.Unique:
			dir = e.Dir
		case index.Ambiguous:
			return reject(diag.SynDuplicateEntries, fmt.Sprintf("Duplicate entries found for %q", name))
		default:
			return reject(diag.SynPathNotFound, fmt.Sprintf("Path not found for %q", name))
		}
	}

	return Command{File: name, Directory: dir, Arguments: tokens}, nil
}

func reject(code diag.Code, msg string) (Command, *diag.Diagnostic) {
	d := diag.NewError(code, diag.Origin{}, msg)
	return Command{}, &d
}
