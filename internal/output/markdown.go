package output

import (
	"fmt"
	"strings"

	"github.com/leonardomso/gbconv/internal/converter"
	"github.com/leonardomso/gbconv/internal/gitbook"
	"github.com/leonardomso/gbconv/internal/helpers"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	// Pre-grow builder: estimate ~200 bytes per result + ~500 bytes header
	var b strings.Builder
	b.Grow(len(report.Results)*200 + 500)

	totals := report.Totals()

	// Header
	b.WriteString("# GitBook Conversion Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Source:** `%s`  \n", report.Source))
	b.WriteString(fmt.Sprintf("**Output:** `%s`  \n", report.Output))
	if report.DryRun {
		b.WriteString("**Mode:** dry run (nothing was written)  \n")
	}
	b.WriteString(fmt.Sprintf("**Documents:** %d\n\n", totals.Documents))

	// Summary table
	b.WriteString("## Summary\n\n")
	b.WriteString("| Construct | Rewritten |\n")
	b.WriteString("|-----------|-----------|\n")
	for _, c := range gitbook.Constructs() {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", c, totals.Rewrites[c]))
	}
	b.WriteString(fmt.Sprintf("| **total** | %d |\n\n", totals.TotalRewrites()))
	b.WriteString(fmt.Sprintf("Assets relocated: %d  \n", totals.Assets))
	b.WriteString(fmt.Sprintf("Remote references left untouched: %d\n\n", totals.SkippedRemote))

	if len(report.Results) == 0 {
		return []byte(b.String()), nil
	}

	// Documents table
	b.WriteString(fmt.Sprintf("## Documents (%d)\n\n", len(report.Results)))
	b.WriteString("| Document | Title | Rewrites | Assets |\n")
	b.WriteString("|----------|-------|----------|--------|\n")
	for _, r := range report.Results {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n",
			escapeMarkdown(r.Document.RelPath),
			escapeMarkdown(helpers.TruncateText(r.Title, 40)),
			r.TotalRewrites(),
			len(r.Assets)))
	}
	b.WriteString("\n")

	// Details for documents that touched assets or left remote references
	var detailed []converter.Result
	for _, r := range report.Results {
		if len(r.Assets) > 0 || len(r.SkippedRemote) > 0 {
			detailed = append(detailed, r)
		}
	}
	if len(detailed) > 0 {
		b.WriteString("### Asset Details\n\n")
		for _, r := range detailed {
			b.WriteString(fmt.Sprintf("#### %s\n\n", escapeMarkdown(r.Document.RelPath)))
			b.WriteString(fmt.Sprintf("- **Output:** `%s`\n", r.Document.OutputPath))
			for _, a := range r.Assets {
				b.WriteString(fmt.Sprintf("- **Asset:** `%s` ← %s\n", a.Name, escapeMarkdown(a.Source)))
			}
			for _, ref := range r.SkippedRemote {
				b.WriteString(fmt.Sprintf("- **Remote:** %s\n", escapeMarkdown(helpers.TruncateURL(ref, 80))))
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

// escapeMarkdown escapes special markdown characters in a string.
func escapeMarkdown(s string) string {
	// Escape pipe characters which break tables
	s = strings.ReplaceAll(s, "|", "\\|")
	// Escape backticks
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
