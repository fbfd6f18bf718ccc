// Package config handles loading configuration from .gbconvrc files.
// Both YAML and TOML are supported; the format is chosen by file extension.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/leonardomso/gbconv/internal/output"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".gbconvrc.yaml"

// ConfigFileNames lists the file names FindAndLoad looks for, in order of preference.
var ConfigFileNames = []string{
	DefaultConfigFileName,
	".gbconvrc.yml",
	".gbconvrc.toml",
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete configuration structure.
type Config struct {
	// Source is the directory holding the GitBook documents.
	Source string `yaml:"source" toml:"source"`

	// Output is the directory receiving the converted tree.
	Output string `yaml:"output" toml:"output"`

	// Layout selects how output paths mirror the source ("nested" or "flat").
	Layout string `yaml:"layout" toml:"layout"`

	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	Report ReportConfig `yaml:"output_report" toml:"output_report"`
	Log    LogConfig    `yaml:"log" toml:"log"`

	// Stats prints the phase breakdown after a run.
	Stats bool `yaml:"stats" toml:"stats"`
}

// ScanConfig controls which documents are converted.
type ScanConfig struct {
	// Extensions of files treated as documents. Defaults to [".md"].
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Include keeps only documents whose path relative to the source matches.
	// Example: "guide/*"
	Include []string `yaml:"include" toml:"include"`

	// Exclude drops documents whose path relative to the source matches.
	// Example: "*/drafts/*"
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// ReportConfig controls the conversion report.
type ReportConfig struct {
	// Format of the report printed to stdout (json, yaml, xml, markdown).
	Format string `yaml:"format" toml:"format"`

	// File receives the report; the format is inferred from its extension.
	File string `yaml:"file" toml:"file"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// LoadFrom reads configuration from a specific path.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Returns an empty config if the file doesn't exist (not an error).
// Returns an error only if the file exists but cannot be parsed.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		// File not found is not an error - just return empty config
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// FindFile searches for a config file starting from the given directory and
// walking up to parent directories. Returns "" if none is found.
func FindFile(startDir string) string {
	dir := startDir

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
// This allows project-specific configs to be found from subdirectories.
// Relative paths in the file are resolved against its directory.
// Returns the path of the file found, or "" with an empty config.
func FindAndLoad(startDir string) (*Config, string, error) {
	path := FindFile(startDir)
	if path == "" {
		return &Config{}, "", nil
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, path, err
	}
	cfg.ResolvePaths(filepath.Dir(path))
	return cfg, path, nil
}

// ResolvePaths joins relative source, output and report file paths onto baseDir,
// the directory of the file they were read from.
func (c *Config) ResolvePaths(baseDir string) {
	c.Source = resolvePath(baseDir, c.Source)
	c.Output = resolvePath(baseDir, c.Output)
	c.Report.File = resolvePath(baseDir, c.Report.File)
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Validate checks values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	var errs []error

	if c.Layout != "" && !scanner.IsValidLayout(c.Layout) {
		errs = append(errs, fmt.Errorf("layout %q (valid: %s)",
			c.Layout, strings.Join(scanner.ValidLayouts(), ", ")))
	}

	if c.Report.Format != "" && !output.IsValidFormat(c.Report.Format) {
		errs = append(errs, fmt.Errorf("output_report.format %q (valid: %s)",
			c.Report.Format, strings.Join(output.ValidFormats(), ", ")))
	}

	if c.Report.File != "" {
		if _, err := output.InferFormat(c.Report.File); err != nil {
			errs = append(errs, fmt.Errorf("output_report.file: %w", err))
		}
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level %q: %w", c.Log.Level, err))
		}
	}

	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("scan.extensions: %q must start with a dot", ext))
		}
	}

	if _, err := scanner.CompilePatterns(c.Scan.Include); err != nil {
		errs = append(errs, fmt.Errorf("scan.include: %w", err))
	}
	if _, err := scanner.CompilePatterns(c.Scan.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("scan.exclude: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// IsEmpty returns true if the config sets nothing.
func (c *Config) IsEmpty() bool {
	return c.Source == "" &&
		c.Output == "" &&
		c.Layout == "" &&
		!c.Stats &&
		len(c.Scan.Extensions) == 0 &&
		len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		c.Report == ReportConfig{} &&
		c.Log == LogConfig{}
}

// Merge combines another config into this one.
// Non-empty scalars of other win; pattern lists are additive.
// This is useful for merging CLI flags with file config.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	c.Source = firstNonEmpty(other.Source, c.Source)
	c.Output = firstNonEmpty(other.Output, c.Output)
	c.Layout = firstNonEmpty(other.Layout, c.Layout)
	c.Report.Format = firstNonEmpty(other.Report.Format, c.Report.Format)
	c.Report.File = firstNonEmpty(other.Report.File, c.Report.File)
	c.Log.Level = firstNonEmpty(other.Log.Level, c.Log.Level)
	c.Stats = c.Stats || other.Stats

	c.Scan.Extensions = append(c.Scan.Extensions, other.Scan.Extensions...)
	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
