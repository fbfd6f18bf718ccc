package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/leonardomso/gbconv/internal/converter"
	"github.com/leonardomso/gbconv/internal/logging"
	"github.com/leonardomso/gbconv/internal/output"
	"github.com/leonardomso/gbconv/internal/scanner"
	"github.com/leonardomso/gbconv/internal/stats"
)

// Flag variables for the convert command.
var (
	sourceDir  string
	outputDir  string
	layout     string
	dryRun     bool
	include    []string
	exclude    []string
	outFormat  string
	reportFile string
	showStats  bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a GitBook directory into standard Markdown",
	Long: `Walk the source directory, rewrite every Markdown document and write
the result under the output directory.

Hidden files and directories are skipped. Only .md files are converted
unless the config adds more extensions. Locally referenced files and images
are copied into an assets directory next to each converted document; remote
references are left untouched.

The first error stops the run. Documents converted before it stay in place.

Layouts:
  nested  out/<dir>/<name>/<name>.md with out/<dir>/<name>/assets (default)
  flat    out/<dir>/<name>.md with out/<dir>/assets

Examples:
  gbconv convert -s docs -o docs-out
  gbconv convert -s docs -o docs-out --layout=flat
  gbconv convert -s docs -o docs-out --exclude="*/drafts/*"
  gbconv convert -s docs -o docs-out --dry-run
  gbconv convert -s docs -o docs-out --format=json    # Report to stdout
  gbconv convert -s docs -o docs-out --report=run.md  # Report to file
  gbconv convert -s docs -o docs-out --stats

Note: --format and --report are mutually exclusive.

Config file (.gbconvrc.yaml):
  source: docs
  output: docs-out
  layout: flat
  scan:
    exclude: ["*/drafts/*"]
  log:
    level: info`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addDirectoryFlags(convertCmd)

	convertCmd.Flags().StringSliceVar(&include, "include", nil,
		"Only convert documents matching these glob patterns (relative to the source)")
	convertCmd.Flags().StringSliceVar(&exclude, "exclude", nil,
		"Skip documents matching these glob patterns (relative to the source)")

	convertCmd.Flags().StringVarP(&outFormat, "format", "f", "",
		"Print a report to stdout: json, yaml, xml, markdown")
	convertCmd.Flags().StringVar(&reportFile, "report", "",
		"Write a report to file (format inferred from extension: .json, .yaml, .xml, .md)")
	convertCmd.Flags().BoolVar(&showStats, "stats", false,
		"Show timing statistics")
}

// addDirectoryFlags registers the flags shared by convert and interactive.
func addDirectoryFlags(c *cobra.Command) {
	c.Flags().StringVarP(&sourceDir, "source", "s", "",
		"Directory containing the GitBook documents")
	c.Flags().StringVarP(&outputDir, "output", "o", "",
		"Directory receiving the converted documents")
	c.Flags().StringVar(&layout, "layout", "",
		"Output layout: nested, flat (default nested)")
	c.Flags().BoolVarP(&dryRun, "dry-run", "n", false,
		"Convert in memory only: no directories, copies or writes")
}

// runOptions is the effective configuration of one run.
type runOptions struct {
	Scan       scanner.ScanOptions
	Format     string
	ReportFile string
	DryRun     bool
	Stats      bool
	Verbose    bool
	Quiet      bool
}

// runConvert is the main entry point for the convert command.
func runConvert(cmd *cobra.Command, _ []string) error {
	lc, err := LoadConfig(noConfig, configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(lc)

	opts, err := resolveRunOptions(lc)
	if err != nil {
		return err
	}

	return executeConvert(logging.WithLogger(cmd.Context(), logger), opts, os.Stdout)
}

// setupLogger sets the default logger to the effective level and returns it.
func setupLogger(lc *LoadedConfig) *log.Logger {
	logging.SetLevel(logging.LevelFor(verbose, quiet, lc.GetLogLevel()))
	logger := logging.Default()

	if lc.Path() != "" {
		if lc.Config().IsEmpty() {
			logger.Warn("config file sets no values", logging.FieldConfig, lc.Path())
		} else {
			logger.Debug("loaded config", logging.FieldConfig, lc.Path())
		}
	}
	return logger
}

// resolveRunOptions merges flags with the loaded config and validates the result.
func resolveRunOptions(lc *LoadedConfig) (runOptions, error) {
	source, err := lc.GetSource(sourceDir)
	if err != nil {
		return runOptions{}, err
	}
	out, err := lc.GetOutput(outputDir)
	if err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		Scan:       lc.BuildScanOptions(source, out, lc.GetLayout(layout), include, exclude),
		Format:     lc.GetOutputFormat(outFormat),
		ReportFile: lc.GetReportFile(reportFile),
		DryRun:     dryRun,
		Stats:      lc.GetShowStats(showStats),
		Verbose:    verbose,
		Quiet:      quiet,
	}

	if err := validateRunOptions(opts); err != nil {
		return runOptions{}, err
	}
	return opts, nil
}

// validateRunOptions checks for invalid flag combinations.
func validateRunOptions(opts runOptions) error {
	if opts.Format != "" && opts.ReportFile != "" {
		return fmt.Errorf("--format and --report are mutually exclusive; " +
			"use --format for stdout output, or --report for file output")
	}

	if opts.Format != "" && !output.IsValidFormat(opts.Format) {
		return fmt.Errorf("invalid format %q; valid formats: %s",
			opts.Format, strings.Join(output.ValidFormats(), ", "))
	}

	if opts.ReportFile != "" {
		if _, err := output.InferFormat(opts.ReportFile); err != nil {
			return err
		}
	}

	if !scanner.IsValidLayout(string(opts.Scan.Layout)) {
		return fmt.Errorf("invalid layout %q; valid layouts: %s",
			opts.Scan.Layout, strings.Join(scanner.ValidLayouts(), ", "))
	}

	if _, err := scanner.CompilePatterns(opts.Scan.Include); err != nil {
		return fmt.Errorf("--include: %w", err)
	}
	if _, err := scanner.CompilePatterns(opts.Scan.Exclude); err != nil {
		return fmt.Errorf("--exclude: %w", err)
	}

	return nil
}

// validateDirectories checks the source is a directory and an existing
// output path is one too.
func validateDirectories(scan scanner.ScanOptions) error {
	if err := scanner.ValidateSource(scan.Root); err != nil {
		return err
	}
	return scanner.ValidateOutput(scan.OutputRoot)
}

// executeConvert runs scan, prepare and convert, then writes the requested
// output to stdout. Progress goes to the logger carried by ctx.
func executeConvert(ctx context.Context, opts runOptions, stdout io.Writer) error {
	logger := logging.FromContext(ctx)
	perf := stats.New()
	start := time.Now()

	if err := validateDirectories(opts.Scan); err != nil {
		return err
	}

	// Phase 1: Scan for documents
	perf.StartScan()
	docs, err := scanner.FindDocuments(opts.Scan)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", opts.Scan.Root, err)
	}
	perf.EndScan(len(docs))
	logger.Info("markdown files found",
		logging.FieldDocuments, len(docs),
		logging.FieldSource, opts.Scan.Root)

	// Phase 2: Create output directories
	if !opts.DryRun {
		perf.StartPrepare()
		logger.Info("creating output directories", logging.FieldOutput, opts.Scan.OutputRoot)
		if err := scanner.CreateOutputDirectories(docs); err != nil {
			return err
		}
		perf.EndPrepare()
	}

	// Phase 3: Convert documents
	perf.StartConvert()
	c := converter.New(converter.Options{DryRun: opts.DryRun})
	results, err := c.ConvertEach(ctx, docs, func(r converter.Result) {
		perf.AddDocument(r.TotalRewrites(), len(r.Assets), len(r.SkippedRemote), r.BytesIn, r.BytesOut)
	})
	perf.EndConvert()
	if err != nil {
		logger.Error("stopped before converting every document",
			logging.FieldDocuments, len(results),
			logging.FieldSkipped, len(docs)-len(results))
		return err
	}

	logger.Info("done",
		logging.FieldDocuments, len(results),
		logging.FieldAssets, perf.AssetsRelocated,
		logging.FieldDryRun, opts.DryRun)
	logger.Info("total time", logging.FieldElapsed, stats.FormatDuration(time.Since(start)))

	// Phase 4: Output results
	return routeOutput(opts, results, perf, logger, stdout)
}

// routeOutput handles output based on format flags.
func routeOutput(
	opts runOptions, results []converter.Result, perf *stats.Stats, logger *log.Logger, stdout io.Writer,
) error {
	switch {
	case opts.Format != "":
		report := buildReport(opts, results, perf)
		data, err := output.FormatReport(report, output.Format(opts.Format))
		if err != nil {
			return fmt.Errorf("formatting report: %w", err)
		}
		_, err = stdout.Write(data)
		return err

	case opts.ReportFile != "":
		report := buildReport(opts, results, perf)
		if err := output.WriteToFile(report, opts.ReportFile); err != nil {
			return err
		}
		logger.Info("wrote report", logging.FieldPath, opts.ReportFile)
	}

	if opts.Format == "" && !opts.Quiet {
		if opts.Verbose {
			fmt.Fprint(stdout, converter.DetailedSummary(results, opts.DryRun))
		} else {
			fmt.Fprint(stdout, converter.Summary(results, opts.DryRun))
		}
	}

	if opts.Stats {
		fmt.Fprint(stdout, perf.String())
	}

	return nil
}

// buildReport assembles the report for structured output.
func buildReport(opts runOptions, results []converter.Result, perf *stats.Stats) *output.Report {
	report := &output.Report{
		GeneratedAt: time.Now(),
		Source:      opts.Scan.Root,
		Output:      opts.Scan.OutputRoot,
		Layout:      string(opts.Scan.Layout),
		Results:     results,
		DryRun:      opts.DryRun,
	}
	if opts.Stats {
		report.Stats = perf.ToJSON()
	}
	return report
}
