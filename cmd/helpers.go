package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leonardomso/gbconv/internal/config"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// ErrMissingDirectory is returned when neither a flag nor the config names
// the source or output directory.
var ErrMissingDirectory = errors.New("missing directory")

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	path     string
	noConfig bool
}

// LoadConfig loads the configuration file unless noConfig is true.
// An explicit path must exist; otherwise .gbconvrc.* is searched from the
// working directory upwards. Relative source, output and report paths in the
// file are resolved against the file's directory.
// Returns an error if the config file exists but is invalid.
func LoadConfig(noConfig bool, explicitPath string) (*LoadedConfig, error) {
	if noConfig {
		return &LoadedConfig{cfg: &config.Config{}, noConfig: true}, nil
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		path = explicitPath
		cfg, err = config.LoadFrom(path)
		if err == nil {
			cfg.ResolvePaths(filepath.Dir(path))
		}
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("loading config: %w", wdErr)
		}
		cfg, path, err = config.FindAndLoad(wd)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &LoadedConfig{cfg: cfg, path: path}, nil
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// Path returns the file the config was loaded from, or "" if none.
func (lc *LoadedConfig) Path() string {
	return lc.path
}

// GetSource returns the effective source directory.
// CLI overrides config if set.
func (lc *LoadedConfig) GetSource(cliValue string) (string, error) {
	if v := firstSet(cliValue, lc.cfg.Source); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: source (use --source or set source in the config)", ErrMissingDirectory)
}

// GetOutput returns the effective output directory.
// CLI overrides config if set.
func (lc *LoadedConfig) GetOutput(cliValue string) (string, error) {
	if v := firstSet(cliValue, lc.cfg.Output); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: output (use --output or set output in the config)", ErrMissingDirectory)
}

// GetLayout returns the effective output layout, nested by default.
func (lc *LoadedConfig) GetLayout(cliValue string) scanner.Layout {
	if v := firstSet(cliValue, lc.cfg.Layout); v != "" {
		return scanner.Layout(v)
	}
	return scanner.LayoutNested
}

// GetOutputFormat returns the effective report format for stdout.
// CLI overrides config if set.
func (lc *LoadedConfig) GetOutputFormat(cliValue string) string {
	return firstSet(cliValue, lc.cfg.Report.Format)
}

// GetReportFile returns the effective report file.
// CLI overrides config if set.
func (lc *LoadedConfig) GetReportFile(cliValue string) string {
	return firstSet(cliValue, lc.cfg.Report.File)
}

// GetShowStats returns the effective showStats setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetShowStats(cliValue bool) bool {
	if cliValue {
		return true
	}
	return lc.cfg.Stats
}

// GetLogLevel returns the configured log level.
func (lc *LoadedConfig) GetLogLevel() string {
	return lc.cfg.Log.Level
}

// BuildScanOptions creates scanner.ScanOptions from config and CLI values.
// Include and exclude patterns from both sources are combined.
func (lc *LoadedConfig) BuildScanOptions(
	source, output string, layout scanner.Layout, cliInclude, cliExclude []string,
) scanner.ScanOptions {
	merged := &config.Config{Scan: config.ScanConfig{
		Extensions: append([]string{}, lc.cfg.Scan.Extensions...),
		Include:    append([]string{}, lc.cfg.Scan.Include...),
		Exclude:    append([]string{}, lc.cfg.Scan.Exclude...),
	}}
	merged.Merge(&config.Config{Scan: config.ScanConfig{Include: cliInclude, Exclude: cliExclude}})

	return scanner.ScanOptions{
		Root:       source,
		OutputRoot: output,
		Extensions: merged.Scan.Extensions,
		Include:    merged.Scan.Include,
		Exclude:    merged.Scan.Exclude,
		Layout:     layout,
	}
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
