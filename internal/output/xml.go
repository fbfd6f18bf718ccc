package output

import (
	"encoding/xml"

	"github.com/leonardomso/gbconv/internal/gitbook"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	XMLName     xml.Name     `xml:"report"`
	GeneratedAt string       `xml:"generated_at,attr"`
	Source      string       `xml:"source,attr"`
	Output      string       `xml:"output,attr"`
	Layout      string       `xml:"layout,attr,omitempty"`
	Documents   xmlDocuments `xml:"documents"`
	Summary     xmlSummary   `xml:"summary"`
	DryRun      bool         `xml:"dry_run,attr"`
}

type xmlSummary struct {
	Documents     int `xml:"documents"`
	Rewrites      int `xml:"rewrites"`
	Assets        int `xml:"assets"`
	SkippedRemote int `xml:"skipped_remote"`
}

type xmlDocuments struct {
	Documents []xmlDocument `xml:"document"`
}

type xmlDocument struct {
	Assets        *xmlAssets   `xml:"assets,omitempty"`
	Skipped       *xmlSkipped  `xml:"skipped_remote,omitempty"`
	Source        string       `xml:"source,attr"`
	Output        string       `xml:"output,attr"`
	Title         string       `xml:"title,omitempty"`
	Rewrites      []xmlRewrite `xml:"rewrite"`
	TotalRewrites int          `xml:"rewrites,attr"`
}

type xmlRewrite struct {
	Construct string `xml:"construct,attr"`
	Count     int    `xml:"count,attr"`
}

type xmlAssets struct {
	Items []xmlAsset `xml:"asset"`
}

type xmlAsset struct {
	Name   string `xml:"name,attr"`
	Source string `xml:",chardata"`
	Bytes  int64  `xml:"bytes,attr"`
}

type xmlSkipped struct {
	References []string `xml:"reference"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	totals := report.Totals()

	output := xmlOutput{
		GeneratedAt: report.GeneratedAt.Format(timestampLayout),
		Source:      report.Source,
		Output:      report.Output,
		Layout:      report.Layout,
		DryRun:      report.DryRun,
		Summary: xmlSummary{
			Documents:     totals.Documents,
			Rewrites:      totals.TotalRewrites(),
			Assets:        totals.Assets,
			SkippedRemote: totals.SkippedRemote,
		},
		Documents: xmlDocuments{
			Documents: make([]xmlDocument, 0, len(report.Results)),
		},
	}

	for _, r := range report.Results {
		xd := xmlDocument{
			Source:        r.Document.RelPath,
			Output:        r.Document.OutputPath,
			Title:         r.Title,
			TotalRewrites: r.TotalRewrites(),
		}

		// Constructs are emitted in pipeline order so the output is stable.
		for _, c := range gitbook.Constructs() {
			if n := r.Rewrites[c]; n > 0 {
				xd.Rewrites = append(xd.Rewrites, xmlRewrite{Construct: string(c), Count: n})
			}
		}

		if len(r.Assets) > 0 {
			xd.Assets = &xmlAssets{Items: make([]xmlAsset, len(r.Assets))}
			for i, a := range r.Assets {
				xd.Assets.Items[i] = xmlAsset{Name: a.Name, Source: a.Source, Bytes: a.Bytes}
			}
		}

		if len(r.SkippedRemote) > 0 {
			xd.Skipped = &xmlSkipped{References: r.SkippedRemote}
		}

		output.Documents.Documents = append(output.Documents.Documents, xd)
	}

	// Add XML header and marshal with indentation
	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
