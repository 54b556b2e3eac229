// Package config manages sweep configuration and filesystem paths.
//
// Settings come from command-line flags, SWEEP_* environment variables, and
// an optional YAML file, in that order of precedence. The default config
// directory is ~/.config/sweep/ and can be moved with SWEEP_CONFIG_DIR.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "SWEEP_CONFIG_DIR"

// Paths contains the filesystem paths used by sweep.
type Paths struct {
	// Dir is the configuration directory (default: ~/.config/sweep)
	Dir string

	// Config is the path to the optional config file
	Config string
}

// DefaultPaths returns the default paths for sweep.
// Paths can be overridden with environment variables:
// - SWEEP_CONFIG_DIR: Override the configuration directory
func DefaultPaths() (*Paths, error) {
	dir := os.Getenv(EnvConfigDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "sweep")
	}

	return &Paths{
		Dir:    dir,
		Config: filepath.Join(dir, "config.yaml"),
	}, nil
}

// HasConfigFile reports whether the config file exists.
func (p *Paths) HasConfigFile() bool {
	info, err := os.Stat(p.Config)
	return err == nil && info.Mode().IsRegular()
}
