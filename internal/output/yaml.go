package output

import (
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

// yamlOutput is the YAML structure for output.
type yamlOutput struct {
	GeneratedAt string         `yaml:"generated_at"`
	Source      string         `yaml:"source"`
	Output      string         `yaml:"output"`
	Layout      string         `yaml:"layout,omitempty"`
	Documents   []yamlDocument `yaml:"documents"`
	Summary     yamlSummary    `yaml:"summary"`
	Stats       map[string]any `yaml:"stats,omitempty"`
	DryRun      bool           `yaml:"dry_run"`
}

type yamlSummary struct {
	Documents     int `yaml:"documents"`
	Rewrites      int `yaml:"rewrites"`
	Assets        int `yaml:"assets"`
	SkippedRemote int `yaml:"skipped_remote"`
}

type yamlDocument struct {
	Rewrites      map[string]int `yaml:"rewrites,omitempty"`
	Source        string         `yaml:"source"`
	Output        string         `yaml:"output"`
	Title         string         `yaml:"title,omitempty"`
	Assets        []string       `yaml:"assets,omitempty"`
	SkippedRemote []string       `yaml:"skipped_remote,omitempty"`
}

// Format implements Formatter.
func (*YAMLFormatter) Format(report *Report) ([]byte, error) {
	totals := report.Totals()

	output := yamlOutput{
		GeneratedAt: report.GeneratedAt.Format(timestampLayout),
		Source:      report.Source,
		Output:      report.Output,
		Layout:      report.Layout,
		DryRun:      report.DryRun,
		Summary: yamlSummary{
			Documents:     totals.Documents,
			Rewrites:      totals.TotalRewrites(),
			Assets:        totals.Assets,
			SkippedRemote: totals.SkippedRemote,
		},
		Documents: make([]yamlDocument, 0, len(report.Results)),
		Stats:     report.Stats,
	}

	for _, r := range report.Results {
		yd := yamlDocument{
			Source:        r.Document.RelPath,
			Output:        r.Document.OutputPath,
			Title:         r.Title,
			SkippedRemote: r.SkippedRemote,
		}
		if counts := rewriteCounts(r.Rewrites); len(counts) > 0 {
			yd.Rewrites = counts
		}
		if names := assetNames(r); len(names) > 0 {
			yd.Assets = names
		}
		output.Documents = append(output.Documents, yd)
	}

	return yaml.Marshal(output)
}
