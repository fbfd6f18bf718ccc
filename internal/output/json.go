package output

import (
	"encoding/json"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// jsonOutput is the JSON structure for output.
type jsonOutput struct {
	GeneratedAt string         `json:"generated_at"`
	Source      string         `json:"source"`
	Output      string         `json:"output"`
	Layout      string         `json:"layout,omitempty"`
	DryRun      bool           `json:"dry_run"`
	Summary     jsonSummary    `json:"summary"`
	Documents   []jsonDocument `json:"documents"`
	Stats       map[string]any `json:"stats,omitempty"`
}

type jsonSummary struct {
	Documents     int            `json:"documents"`
	Rewrites      int            `json:"rewrites"`
	Assets        int            `json:"assets"`
	SkippedRemote int            `json:"skipped_remote"`
	ByConstruct   map[string]int `json:"by_construct,omitempty"`
}

type jsonDocument struct {
	Source        string         `json:"source"`
	Output        string         `json:"output"`
	Title         string         `json:"title,omitempty"`
	Rewrites      map[string]int `json:"rewrites,omitempty"`
	Assets        []jsonAsset    `json:"assets,omitempty"`
	SkippedRemote []string       `json:"skipped_remote,omitempty"`
	BytesIn       int            `json:"bytes_in"`
	BytesOut      int            `json:"bytes_out"`
}

type jsonAsset struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Bytes       int64  `json:"bytes"`
}

// Format implements Formatter.
func (*JSONFormatter) Format(report *Report) ([]byte, error) {
	totals := report.Totals()

	output := jsonOutput{
		GeneratedAt: report.GeneratedAt.Format(timestampLayout),
		Source:      report.Source,
		Output:      report.Output,
		Layout:      report.Layout,
		DryRun:      report.DryRun,
		Summary: jsonSummary{
			Documents:     totals.Documents,
			Rewrites:      totals.TotalRewrites(),
			Assets:        totals.Assets,
			SkippedRemote: totals.SkippedRemote,
			ByConstruct:   rewriteCounts(totals.Rewrites),
		},
		Documents: make([]jsonDocument, 0, len(report.Results)),
		Stats:     report.Stats,
	}

	for _, r := range report.Results {
		jd := jsonDocument{
			Source:        r.Document.RelPath,
			Output:        r.Document.OutputPath,
			Title:         r.Title,
			Rewrites:      rewriteCounts(r.Rewrites),
			SkippedRemote: r.SkippedRemote,
			BytesIn:       r.BytesIn,
			BytesOut:      r.BytesOut,
		}
		for _, a := range r.Assets {
			jd.Assets = append(jd.Assets, jsonAsset{
				Name:        a.Name,
				Source:      a.Source,
				Destination: a.Destination,
				Bytes:       a.Bytes,
			})
		}
		output.Documents = append(output.Documents, jd)
	}

	return json.MarshalIndent(output, "", "  ")
}
