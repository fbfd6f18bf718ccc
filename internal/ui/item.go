package ui

import (
	"fmt"
	"strings"

	"github.com/leonardomso/gbconv/internal/converter"
	"github.com/leonardomso/gbconv/internal/helpers"
)

// DocumentItem wraps a converter.Result to implement list.Item interface.
type DocumentItem struct {
	Result converter.Result
}

// FilterValue returns the string used for filtering.
// Implements list.Item interface.
func (i DocumentItem) FilterValue() string {
	return i.Result.Document.RelPath + " " + i.Result.Title
}

// Title returns the main display text for the item.
// Implements list.DefaultItem interface.
func (i DocumentItem) Title() string {
	if title := helpers.TruncateText(i.Result.Title, 50); title != "" {
		return fmt.Sprintf("%s  %q", i.Result.Document.RelPath, title)
	}
	return i.Result.Document.RelPath
}

// Description returns secondary text for the item.
// Implements list.DefaultItem interface.
func (i DocumentItem) Description() string {
	r := i.Result

	parts := []string{fmt.Sprintf("%d rewrite(s)", r.TotalRewrites())}
	if n := len(r.Assets); n > 0 {
		parts = append(parts, fmt.Sprintf("%d asset(s)", n))
	}
	if n := len(r.SkippedRemote); n > 0 {
		parts = append(parts, fmt.Sprintf("%d remote", n))
	}
	parts = append(parts, "→ "+helpers.TruncateText(r.Document.OutputPath, 60))

	return strings.Join(parts, " | ")
}

// DetailView returns an expanded detail view for the selected item.
func (i DocumentItem) DetailView() string {
	r := i.Result
	var b strings.Builder

	b.WriteString("┌─ Details ─────────────────────────────────────────────────────────────\n")

	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Status:"),
		RewriteBadge(r.TotalRewrites(), len(r.SkippedRemote))))

	if counts := converter.FormatRewrites(r.Rewrites); counts != "" {
		b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Rewrites:"), counts))
	}

	if len(r.Assets) > 0 {
		b.WriteString("│\n")
		for _, a := range r.Assets {
			b.WriteString(fmt.Sprintf("│ %s  %s ← %s\n",
				DetailLabelStyle.Render("Asset:"), a.Name, helpers.TruncateText(a.Source, 60)))
		}
	}

	if len(r.SkippedRemote) > 0 {
		b.WriteString("│\n")
		for _, ref := range r.SkippedRemote {
			b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Remote:"), helpers.TruncateURL(ref, 70)))
		}
		b.WriteString(fmt.Sprintf("│ %s\n", DetailNoteStyle.Render("Note: remote references are left as they are")))
	}

	if title := helpers.TruncateText(r.Title, 60); title != "" {
		b.WriteString("│\n")
		b.WriteString(fmt.Sprintf("│ %s  %q\n", DetailLabelStyle.Render("Title:"), title))
	}

	b.WriteString("│\n")
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Source:"), r.Document.SourcePath))
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Output:"), r.Document.OutputPath))

	b.WriteString("└────────────────────────────────────────────────────────────────────────\n")

	return b.String()
}

// ResultsToItems converts a slice of converter.Result to DocumentItems.
func ResultsToItems(results []converter.Result) []DocumentItem {
	items := make([]DocumentItem, len(results))
	for i, r := range results {
		items[i] = DocumentItem{Result: r}
	}
	return items
}
