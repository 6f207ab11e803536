// =============================================================================
// Sales Pipeline - Configuration Module
// =============================================================================
//
// This module loads the pipeline configuration from a YAML file. Every stage
// receives its paths from here; nothing is derived from the working directory
// of the invoking process beyond the relative defaults below.
//
// EXAMPLE (config.yaml):
//
//   source_dir: ./data
//   source_pattern: "*.txt"
//   result_dir: ./result
//   artifact_name: txt
//   log_level: info
//   report:
//     enabled: true
//     sheet_name: Sales
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the pipeline configuration.
type Config struct {
	// SourceDir is the directory the Extraction Stage reads raw files from.
	// Default: "./data"
	SourceDir string `yaml:"source_dir" validate:"required"`

	// SourcePattern is a doublestar glob matched against paths relative to
	// SourceDir, e.g. "*.txt" or "**/*.txt".
	// Default: "*.txt"
	SourcePattern string `yaml:"source_pattern" validate:"required"`

	// ResultDir is where stage artifacts are written.
	// Default: "./result"
	ResultDir string `yaml:"result_dir" validate:"required"`

	// ArtifactName is the base name of the artifacts (without extension).
	// Default: "txt", producing <result_dir>/txt.json
	// Path separators and glob metacharacters are rejected.
	ArtifactName string `yaml:"artifact_name" validate:"required,excludesall=/\\*?[]{}"`

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogJSON switches the logger to JSON lines.
	LogJSON bool `yaml:"log_json"`

	// Report configures the optional XLSX report stage.
	Report ReportConfig `yaml:"report"`
}

// ReportConfig configures the XLSX report stage.
type ReportConfig struct {
	// Enabled adds the report stage to every run.
	Enabled bool `yaml:"enabled"`

	// SheetName is the name of the per-record worksheet.
	// Default: "Sales". "By Country" is reserved for the aggregate sheet.
	SheetName string `yaml:"sheet_name" validate:"required,max=31,ne=By Country"`
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// ArtifactPath is the JSON artifact written by the Transformation Stage.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.ResultDir, c.ArtifactName+".json")
}

// ReportPath is the XLSX workbook written by the report stage.
func (c *Config) ReportPath() string {
	return filepath.Join(c.ResultDir, c.ArtifactName+".xlsx")
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path from fsys.
//
// PARAMETERS:
//   - fsys: The filesystem to read from.
//   - path: The configuration file path.
//   - required: When false, a missing file yields the defaults.
//
// RETURNS:
//   - The loaded configuration with defaults applied.
//   - An error if the file cannot be read, parsed, or fails validation.
func Load(fsys afero.Fs, path string, required bool) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// applyDefaults sets default values for any unset options.
func applyDefaults(cfg *Config) {
	if cfg.SourceDir == "" {
		cfg.SourceDir = "./data"
	}
	if cfg.SourcePattern == "" {
		cfg.SourcePattern = "*.txt"
	}
	if cfg.ResultDir == "" {
		cfg.ResultDir = "./result"
	}
	if cfg.ArtifactName == "" {
		cfg.ArtifactName = "txt"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Report.SheetName == "" {
		cfg.Report.SheetName = "Sales"
	}
}
