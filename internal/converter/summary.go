package converter

import (
	"fmt"
	"strings"

	"github.com/leonardomso/gbconv/internal/gitbook"
	"github.com/leonardomso/gbconv/internal/helpers"
)

// Totals aggregates a set of results.
type Totals struct {
	Rewrites      map[gitbook.Construct]int
	Documents     int
	Assets        int
	SkippedRemote int
	BytesIn       int
	BytesOut      int
}

// Summarize aggregates results into Totals.
func Summarize(results []Result) Totals {
	t := Totals{
		Documents: len(results),
		Rewrites:  make(map[gitbook.Construct]int, len(gitbook.Constructs())),
	}

	for _, r := range results {
		t.Assets += len(r.Assets)
		t.SkippedRemote += len(r.SkippedRemote)
		t.BytesIn += r.BytesIn
		t.BytesOut += r.BytesOut
		for c, n := range r.Rewrites {
			t.Rewrites[c] += n
		}
	}

	return t
}

// TotalRewrites returns the number of rewritten constructs across all documents.
func (t Totals) TotalRewrites() int {
	total := 0
	for _, n := range t.Rewrites {
		total += n
	}
	return total
}

// Summary returns a short, human readable summary of a run.
func Summary(results []Result, dryRun bool) string {
	if len(results) == 0 {
		return "No documents converted."
	}

	t := Summarize(results)

	var b strings.Builder
	verb := "Converted"
	if dryRun {
		verb = "Would convert"
	}
	b.WriteString(fmt.Sprintf("%s %d document(s): %d construct(s) rewritten, %d asset(s) relocated.\n",
		verb, t.Documents, t.TotalRewrites(), t.Assets))

	if t.SkippedRemote > 0 {
		b.WriteString(fmt.Sprintf("Left %d remote file/image reference(s) untouched.\n", t.SkippedRemote))
	}

	return b.String()
}

// DetailedSummary lists every document with its rewrite counts, assets and skipped references.
func DetailedSummary(results []Result, dryRun bool) string {
	if len(results) == 0 {
		return "No documents converted."
	}

	var b strings.Builder
	b.WriteString(Summary(results, dryRun))
	b.WriteString("\n")

	for _, r := range results {
		b.WriteString(fmt.Sprintf("  %s -> %s\n", r.Document.RelPath, r.Document.OutputPath))
		if title := helpers.TruncateText(r.Title, 60); title != "" {
			b.WriteString(fmt.Sprintf("    title: %s\n", title))
		}
		if counts := FormatRewrites(r.Rewrites); counts != "" {
			b.WriteString(fmt.Sprintf("    rewrites: %s\n", counts))
		}
		for _, a := range r.Assets {
			b.WriteString(fmt.Sprintf("    asset: %s\n", a.Name))
		}
		for _, ref := range r.SkippedRemote {
			b.WriteString(fmt.Sprintf("    remote: %s\n", helpers.TruncateURL(ref, 70)))
		}
	}

	return b.String()
}

// FormatRewrites renders non-zero counts in pipeline order, e.g. "code=2 hint=1".
func FormatRewrites(rewrites map[gitbook.Construct]int) string {
	parts := make([]string, 0, len(rewrites))
	for _, c := range gitbook.Constructs() {
		if n := rewrites[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	return strings.Join(parts, " ")
}
