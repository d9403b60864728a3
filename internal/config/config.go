// Package config provides flatten configuration management: built-in defaults,
// an optional YAML file in the repository root, and flag overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"flatten.dev/flatten/internal/fsutil"
	"flatten.dev/flatten/internal/utils"
)

// FileName is the name of the optional configuration file in the repository root
const FileName = ".flatten.yml"

const (
	// DefaultReference is the branch whose history is flattened
	DefaultReference = "develop"
	// DefaultTarget is the branch that receives the snapshot directories
	DefaultTarget = "student"
)

// Config represents the flatten configuration
type Config struct {
	Reference string   `yaml:"reference"`
	Target    string   `yaml:"target"`
	Protected []string `yaml:"protected"`
	Markers   []string `yaml:"markers"`
	Ignore    []string `yaml:"ignore"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Reference: DefaultReference,
		Target:    DefaultTarget,
		Protected: []string{DefaultTarget, DefaultReference},
		Markers:   append([]string(nil), utils.DefaultMarkers...),
		Ignore:    append([]string(nil), fsutil.DefaultIgnorePatterns...),
	}
}

// Load reads the configuration for a repository through fs.
// When path is empty, <repoRoot>/.flatten.yml is used if it exists and the
// defaults otherwise. An explicit path must exist.
func Load(fs fsutil.Filesystem, repoRoot, path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(repoRoot, FileName)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			// Config doesn't exist - return default
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Merge(&fileCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overrides fields of c with the non-empty fields of other
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Reference != "" {
		c.Reference = other.Reference
	}
	if other.Target != "" {
		c.Target = other.Target
	}
	if len(other.Protected) > 0 {
		c.Protected = append([]string(nil), other.Protected...)
	}
	if len(other.Markers) > 0 {
		c.Markers = append([]string(nil), other.Markers...)
	}
	if len(other.Ignore) > 0 {
		c.Ignore = append([]string(nil), other.Ignore...)
	}
}

// Validate checks the configuration. The reference and target branches are
// always protected and .git is always ignored, whatever the file or flags say.
func (c *Config) Validate() error {
	if c.Reference == "" {
		return fmt.Errorf("reference branch must not be empty")
	}
	if c.Target == "" {
		return fmt.Errorf("target branch must not be empty")
	}
	if c.Reference == c.Target {
		return fmt.Errorf("reference and target must differ (both %q)", c.Reference)
	}

	hasMarker := false
	for _, m := range c.Markers {
		if m != "" {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		return fmt.Errorf("at least one marker is required")
	}

	for _, pattern := range c.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}

	for _, branch := range []string{c.Target, c.Reference} {
		if !utils.ContainsString(c.Protected, branch) {
			c.Protected = append(c.Protected, branch)
		}
	}
	if !slices.Contains(c.Ignore, fsutil.GitDirName) {
		c.Ignore = append(c.Ignore, fsutil.GitDirName)
	}
	return nil
}
