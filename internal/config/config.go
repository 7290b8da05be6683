// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format   string `yaml:"format"`
		Language string `yaml:"language"`
		Verbose  bool   `yaml:"verbose"`
		Debug    bool   `yaml:"debug"`
		NoColor  bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Layout analysis tolerances
	Layout struct {
		RowOverlap    float64 `yaml:"row_overlap"`
		ColumnOverlap float64 `yaml:"column_overlap"`
		SameColumnX   float64 `yaml:"same_column_x"`
	} `yaml:"layout"`

	// Date plausibility window, in years relative to today
	Dates struct {
		PastYears   int `yaml:"past_years"`
		FutureYears int `yaml:"future_years"`
	} `yaml:"dates"`

	// Per-field scoring overrides, merged over the built-in weights
	Scoring struct {
		TextOnlyScale float64 `yaml:"text_only_scale"`
	} `yaml:"scoring"`

	// Learned keyword store
	Learning struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"learning"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Language = "auto"
	config.Layout.RowOverlap = 0.5
	config.Layout.ColumnOverlap = 0.3
	config.Layout.SameColumnX = 0.08
	config.Dates.PastYears = 5
	config.Dates.FutureYears = 2
	config.Scoring.TextOnlyScale = 0.85
	config.Learning.Enabled = false
	config.Learning.Path = ""

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first
	if fileExists("invoice-scan.yaml") {
		return "invoice-scan.yaml"
	}
	if fileExists("invoice-scan.yml") {
		return "invoice-scan.yml"
	}

	// Project-specific config
	if fileExists(".invoice-scan.yaml") {
		return ".invoice-scan.yaml"
	}
	if fileExists(".invoice-scan.yml") {
		return ".invoice-scan.yml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeConfig := filepath.Join(home, ".invoice-scan.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}
	homeConfig = filepath.Join(home, ".invoice-scan.yml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	// XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "invoice-scan", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}
	xdgConfigFile = filepath.Join(xdgConfig, "invoice-scan", "config.yml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// ValidateConfig validates configuration values
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	switch config.Defaults.Format {
	case "", "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format: %s", config.Defaults.Format)
	}

	switch config.Defaults.Language {
	case "", "auto", "pl", "en":
	default:
		return fmt.Errorf("unknown language: %s", config.Defaults.Language)
	}

	if config.Layout.RowOverlap < 0 || config.Layout.RowOverlap > 1 {
		return fmt.Errorf("layout.row_overlap must be within [0,1]")
	}
	if config.Layout.ColumnOverlap < 0 || config.Layout.ColumnOverlap > 1 {
		return fmt.Errorf("layout.column_overlap must be within [0,1]")
	}
	if config.Scoring.TextOnlyScale <= 0 || config.Scoring.TextOnlyScale > 1 {
		return fmt.Errorf("scoring.text_only_scale must be within (0,1]")
	}
	if config.Dates.PastYears < 0 || config.Dates.FutureYears < 0 {
		return fmt.Errorf("date window years cannot be negative")
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, it returns the default
// configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return info != nil && !info.IsDir()
}
