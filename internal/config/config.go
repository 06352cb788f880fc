package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional tool configuration file at the workspace root.
const FileName = ".agentctl.yaml"

// Config holds workspace-level defaults for agentctl commands.
// Command-line flags override these values.
type Config struct {
	// BaseRef is the default ref changed-agent detection diffs against.
	BaseRef string `yaml:"base_ref"`

	// Docs overrides documentation build defaults.
	Docs DocsConfig `yaml:"docs"`

	// MDCheck configures the Markdown fence checker.
	MDCheck MDCheckConfig `yaml:"md_check"`
}

// DocsConfig holds docs build defaults.
type DocsConfig struct {
	// Builder overrides the documentation generator command.
	Builder string `yaml:"builder"`

	// Jobs bounds concurrent per-agent builds.
	Jobs int `yaml:"jobs"`
}

// MDCheckConfig holds Markdown checker defaults.
type MDCheckConfig struct {
	// Exclude lists path substrings to skip.
	Exclude []string `yaml:"exclude"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{BaseRef: "origin/main"}
}

// Load reads .agentctl.yaml from the workspace root.
// A missing file returns the default configuration.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.BaseRef == "" {
		cfg.BaseRef = "origin/main"
	}
	return cfg, nil
}
