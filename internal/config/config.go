// Package config loads autoexpand's project configuration, adapted from
// the teacher's internal/config: same search-path precedence and
// apply-missing-defaults shape, new fields for this domain.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for autoexpand.
type Config struct {
	// Sources is a list of glob patterns (supporting "**") identifying every
	// Verilog/SystemVerilog file that contributes module declarations to the
	// cross-file symbol index, including files never directly edited.
	Sources []string `json:"sources,omitempty"`

	// Exclude is a list of glob patterns to drop from Sources.
	Exclude []string `json:"exclude,omitempty"`

	// Expand contains AUTO-expansion behavior options.
	Expand ExpandConfig `json:"expand,omitempty"`
}

// ExpandConfig controls how directives are expanded.
type ExpandConfig struct {
	// EnableAutoTemplate turns on AUTO_TEMPLATE connection overrides. When
	// false, AUTOINST always connects every port to a same-named signal.
	EnableAutoTemplate *bool `json:"enableAutoTemplate,omitempty"`

	// WrapColumn is an advisory line-width callers may use to decide whether
	// to further reflow the rendered fragment; autoexpand itself always
	// emits one port per line for AUTOINST and never wraps within a line.
	WrapColumn int `json:"wrapColumn,omitempty"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sources: []string{"**/*.v", "**/*.sv", "**/*.vh", "**/*.svh"},
		Exclude: []string{},
		Expand: ExpandConfig{
			EnableAutoTemplate: boolPtr(true),
			WrapColumn:         100,
		},
	}
}

func boolPtr(v bool) *bool { return &v }

// Load finds and loads the configuration file.
// Search order:
//  1. ./autoexpand.json (current working directory)
//  2. ./.autoexpand.json (current working directory)
//  3. <rootPath>/autoexpand.json (if different from cwd)
//  4. <rootPath>/.autoexpand.json (if different from cwd)
//  5. ~/.config/autoexpand/config.json
//
// Returns DefaultConfig if no config file is found.
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "autoexpand.json"),
		filepath.Join(cwd, ".autoexpand.json"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "autoexpand.json"),
				filepath.Join(rootPath, ".autoexpand.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "autoexpand", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults.
func (c *Config) applyDefaults() {
	if len(c.Sources) == 0 {
		c.Sources = []string{"**/*.v", "**/*.sv", "**/*.vh", "**/*.svh"}
	}
	if c.Expand.EnableAutoTemplate == nil {
		c.Expand.EnableAutoTemplate = boolPtr(true)
	}
	if c.Expand.WrapColumn == 0 {
		c.Expand.WrapColumn = 100
	}
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// AutoTemplateEnabled reports whether AUTO_TEMPLATE overrides are active.
func (c *Config) AutoTemplateEnabled() bool {
	return c.Expand.EnableAutoTemplate == nil || *c.Expand.EnableAutoTemplate
}
