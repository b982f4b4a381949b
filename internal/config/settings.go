package config

import (
	"errors"
	"slices"
)

// Settings is the effective configuration of one generate run.
type Settings struct {
	LogPath    string
	OutputPath string
	SourceRoot string
	Compiler   string
	Exclude    []string
	IndexCache string
	Unique     bool
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		OutputPath: DefaultOutput,
		Compiler:   DefaultCompiler,
	}
}

// Apply overrides s with every value set in the manifest. A nil manifest
// leaves s unchanged.
func (m *Manifest) Apply(s *Settings) {
	if m == nil || s == nil {
		return
	}
	f := m.File
	if f.Input.Log != "" {
		s.LogPath = f.Input.Log
	}
	if f.Input.Compiler != "" {
		s.Compiler = f.Input.Compiler
	}
	if f.Source.Root != "" {
		s.SourceRoot = f.Source.Root
	}
	if m.IsDefined("source", "exclude") {
		s.Exclude = slices.Clone(f.Source.Exclude)
	}
	if f.Output.Path != "" {
		s.OutputPath = f.Output.Path
	}
	if m.IsDefined("output", "unique") {
		s.Unique = f.Output.Unique
	}
	if f.Index.Cache != "" {
		s.IndexCache = f.Index.Cache
	}
}

// Validate reports settings a run cannot start without.
func (s Settings) Validate() error {
	var errs []error
	if s.LogPath == "" {
		errs = append(errs, errors.New("no build log given (--input-file or [input].log)"))
	}
	if s.SourceRoot == "" {
		errs = append(errs, errors.New("no source directory given (--source-directory or [source].root)"))
	}
	if s.OutputPath == "" {
		errs = append(errs, errors.New("output path must not be empty"))
	}
	if s.Compiler == "" {
		errs = append(errs, errors.New("compiler executable must not be empty"))
	}
	return errors.Join(errs...)
}
