package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccgen/internal/config"
)

// loadManifest returns the ccgen.toml named by --config, or the nearest one
// above the working directory. A missing file is not an error unless it was
// named explicitly.
func loadManifest(cmd *cobra.Command) (*config.Manifest, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	m, _, err := config.Discover(".")
	return m, err
}

// resolveSettings merges defaults, ccgen.toml and flags, in that order of
// precedence from lowest to highest.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Defaults()
	m, err := loadManifest(cmd)
	if err != nil {
		return s, err
	}
	m.Apply(&s)

	fs := cmd.Flags()
	str := func(name string, dst *string) error {
		if !fs.Changed(name) {
			return nil
		}
		v, err := fs.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
		return nil
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"input-file", &s.LogPath},
		{"output-file", &s.OutputPath},
		{"source-directory", &s.SourceRoot},
		{"compiler-executable", &s.Compiler},
		{"index-cache", &s.IndexCache},
	} {
		if err := str(f.name, f.dst); err != nil {
			return s, err
		}
	}
	if fs.Changed("exclude") {
		if s.Exclude, err = fs.GetStringArray("exclude"); err != nil {
			return s, fmt.Errorf("failed to get exclude flag: %w", err)
		}
	}
	if fs.Changed("unique") {
		if s.Unique, err = fs.GetBool("unique"); err != nil {
			return s, fmt.Errorf("failed to get unique flag: %w", err)
		}
	}
	return s, nil
}
