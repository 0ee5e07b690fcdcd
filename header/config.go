// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in policy defaults.
const (
	DefaultHolder   = "The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)"
	DefaultLicense  = "Apache-2.0"
	DefaultTemplate = "opensovd"
)

// configPaths are the default config file locations, tried in order.
var configPaths = []string{".annotate.yml", ".annotate.yaml"}

// Policy is the copyright and license policy of a run. It is immutable once
// the run starts.
type Policy struct {
	// Holder is the copyright holder. Must be non-empty.
	Holder string
	// License is the SPDX license identifier.
	License string
	// Template optionally names the header boilerplate.
	Template string
}

// Validate checks the policy for use in a run.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.Holder) == "" {
		return errors.New("copyright holder must not be empty")
	}
	if strings.TrimSpace(p.License) == "" {
		return errors.New("license identifier must not be empty")
	}
	return nil
}

// Config is the file- and environment-sourced configuration of a run.
//
// Sources are applied in precedence order: command-line flags override
// environment variables, which override the config file, which overrides the
// built-in defaults. Flags are applied by the caller after LoadConfig.
type Config struct {
	// Holder overrides the default copyright holder.
	Holder string `yaml:"holder"`
	// License overrides the default SPDX license identifier.
	License string `yaml:"license"`
	// Template overrides the default header template name.
	Template string `yaml:"template"`
	// Tool names an external annotation command. When empty the built-in
	// template tool is used.
	Tool string `yaml:"tool"`
	// ToolArgs are arguments placed before the per-file flags of the
	// external command.
	ToolArgs []string `yaml:"tool_args"`
	// Bundle is the path of the template bundle.
	Bundle string `yaml:"bundle"`
	// Strict makes per-file annotation failures fail the whole run.
	Strict bool `yaml:"strict"`
	// Jobs bounds the number of files annotated concurrently.
	Jobs int `yaml:"jobs"`
	// Exclude lists path suffixes that are never annotated.
	Exclude []string `yaml:"exclude"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Holder:   DefaultHolder,
		License:  DefaultLicense,
		Template: DefaultTemplate,
		Bundle:   BundlePath,
		Jobs:     1,
	}
}

// LoadConfig loads configuration from the config file and the environment.
//
// If path is empty, the default locations are tried and a missing file is
// not an error. Environment variables (ANNOTATE_HOLDER, ANNOTATE_LICENSE,
// ANNOTATE_TEMPLATE, ANNOTATE_TOOL) are applied on top.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, p := range configPaths {
			err := loadConfigFile(p, cfg)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			break
		}
	}

	if v := getenv("ANNOTATE_HOLDER"); v != "" {
		cfg.Holder = v
	}
	if v := getenv("ANNOTATE_LICENSE"); v != "" {
		cfg.License = v
	}
	if v := getenv("ANNOTATE_TEMPLATE"); v != "" {
		cfg.Template = v
	}
	if v := getenv("ANNOTATE_TOOL"); v != "" {
		cfg.Tool = v
	}

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Policy returns the annotation policy described by the config.
func (c *Config) Policy() Policy {
	return Policy{
		Holder:   c.Holder,
		License:  c.License,
		Template: c.Template,
	}
}
