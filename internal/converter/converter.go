// Package converter reads GitBook documents, runs them through the rewrite
// pipeline and writes the standard Markdown result to the mirrored output path.
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/leonardomso/gbconv/internal/asset"
	"github.com/leonardomso/gbconv/internal/gitbook"
	"github.com/leonardomso/gbconv/internal/logging"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// Sentinel errors for document I/O.
var (
	ErrRead  = errors.New("reading document")
	ErrWrite = errors.New("writing document")
)

// Result is the outcome of converting one document.
type Result struct {
	Document      scanner.Document
	Rewrites      map[gitbook.Construct]int
	Title         string
	Assets        []asset.Relocated
	SkippedRemote []string
	BytesIn       int
	BytesOut      int
	Duration      time.Duration
}

// TotalRewrites returns the number of constructs rewritten in the document.
func (r Result) TotalRewrites() int {
	total := 0
	for _, n := range r.Rewrites {
		total += n
	}
	return total
}

// Options configures a Converter.
type Options struct {
	// DryRun runs the pipeline without copying assets or writing documents.
	DryRun bool
}

// Converter converts documents one at a time.
// Debug records go to the logger attached to the context passed to each call
// (see logging.WithLogger), or to the default logger.
type Converter struct {
	pipeline *gitbook.Pipeline
	dryRun   bool
}

// New creates a Converter.
func New(opts Options) *Converter {
	return &Converter{
		pipeline: gitbook.New(&asset.Relocator{DryRun: opts.DryRun}),
		dryRun:   opts.DryRun,
	}
}

// DryRun reports whether the converter leaves the filesystem untouched.
func (c *Converter) DryRun() bool {
	return c.dryRun
}

// ConvertFile reads doc.SourcePath, transforms it and writes doc.OutputPath.
// doc.AssetDir must exist unless the converter runs in dry-run mode.
func (c *Converter) ConvertFile(ctx context.Context, doc scanner.Document) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(logging.WithFields(ctx, logging.FieldDocument, doc.RelPath))

	content, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, doc.SourcePath, err)
	}

	gdoc := gitbook.NewDocument(doc.SourceDir, doc.AssetDir)
	converted, err := c.pipeline.Run(gdoc, string(content))
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", doc.SourcePath, err)
	}

	for _, a := range gdoc.Relocated {
		logger.Debug("relocated asset",
			logging.FieldAsset, a.Name,
			logging.FieldSource, a.Source,
			logging.FieldAssetDir, doc.AssetDir)
	}
	for _, ref := range gdoc.SkippedRemote {
		logger.Debug("left remote reference untouched",
			logging.FieldReference, ref)
	}

	if !c.dryRun {
		// The output directory exists because AssetDir lives inside it.
		if err := os.WriteFile(doc.OutputPath, []byte(converted), 0o644); err != nil { //nolint:gosec // converted docs are meant to be readable
			return nil, fmt.Errorf("%w %s: %w", ErrWrite, doc.OutputPath, err)
		}
	}

	result := &Result{
		Document:      doc,
		Title:         ExtractTitle([]byte(converted)),
		Rewrites:      gdoc.Rewrites,
		Assets:        gdoc.Relocated,
		SkippedRemote: gdoc.SkippedRemote,
		BytesIn:       len(content),
		BytesOut:      len(converted),
		Duration:      time.Since(start),
	}

	logger.Debug("converted document",
		logging.FieldOutput, doc.OutputPath,
		logging.FieldRewrites, result.TotalRewrites(),
		logging.FieldAssets, len(result.Assets))

	return result, nil
}

// ConvertAll converts docs in order and stops at the first error.
// Results for documents converted before the failure are returned with the error;
// their output files stay in place.
func (c *Converter) ConvertAll(ctx context.Context, docs []scanner.Document) ([]Result, error) {
	return c.ConvertEach(ctx, docs, nil)
}

// ConvertEach is ConvertAll with a callback invoked after each converted document.
// A canceled ctx stops the run before the next document.
func (c *Converter) ConvertEach(
	ctx context.Context, docs []scanner.Document, onResult func(Result),
) ([]Result, error) {
	results := make([]Result, 0, len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := c.ConvertFile(ctx, doc)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
		if onResult != nil {
			onResult(*result)
		}
	}

	return results, nil
}
