// Package gitbook rewrites GitBook block constructs into standard Markdown.
//
// Each construct has its own rewriter. A rewriter finds every match against
// the text it was given and applies the replacements one by one to a separate
// accumulator, replacing the first literal occurrence of each matched span.
// Offsets are never reused after an edit, so replacements of different
// lengths cannot corrupt later matches.
package gitbook

import (
	"github.com/leonardomso/gbconv/internal/asset"
)

// Construct identifies one GitBook block type.
type Construct string

// Supported constructs, in pipeline order.
const (
	ConstructCode  Construct = "code"
	ConstructEmbed Construct = "embed"
	ConstructFile  Construct = "file"
	ConstructHint  Construct = "hint"
	ConstructImage Construct = "image"
	ConstructTabs  Construct = "tabs"
)

// Constructs returns all constructs in pipeline order.
func Constructs() []Construct {
	return []Construct{
		ConstructCode,
		ConstructEmbed,
		ConstructFile,
		ConstructHint,
		ConstructImage,
		ConstructTabs,
	}
}

// Document carries everything a rewriter needs besides the text itself,
// and collects what happened to the document while it went through the pipeline.
type Document struct {
	// SourceDir is the directory containing the source file.
	// Relative asset references are resolved against it.
	SourceDir string

	// AssetDir is the destination asset directory. It must exist unless
	// the relocator runs in dry-run mode.
	AssetDir string

	// Relocator copies local assets. A nil Relocator copies for real.
	Relocator *asset.Relocator

	// Relocated lists the assets copied for this document, in order of first use.
	Relocated []asset.Relocated

	// SkippedRemote lists remote references left untouched by the file and image rewriters.
	SkippedRemote []string

	// Rewrites counts the matches rewritten per construct.
	Rewrites map[Construct]int

	// seen maps canonical source paths to their normalized names so each
	// distinct asset is copied at most once per document.
	seen map[string]string
}

// NewDocument creates a Document for the given source and asset directories.
func NewDocument(sourceDir, assetDir string) *Document {
	return &Document{
		SourceDir: sourceDir,
		AssetDir:  assetDir,
		Rewrites:  map[Construct]int{},
	}
}

// TotalRewrites returns the number of rewritten matches across all constructs.
func (d *Document) TotalRewrites() int {
	total := 0
	for _, n := range d.Rewrites {
		total += n
	}
	return total
}

func (d *Document) count(c Construct, n int) {
	if d.Rewrites == nil {
		d.Rewrites = map[Construct]int{}
	}
	d.Rewrites[c] += n
}

// relocate resolves ref against the document directory and copies it into
// the asset directory. remote is true when ref is an absolute URL, in which
// case nothing is copied and the caller must leave the match untouched.
func (d *Document) relocate(ref string) (name string, remote bool, err error) {
	resolved, err := asset.Resolve(ref, d.SourceDir)
	if err != nil {
		return "", false, err
	}
	if resolved.Remote {
		d.SkippedRemote = append(d.SkippedRemote, ref)
		return "", true, nil
	}

	if name, ok := d.seen[resolved.Path]; ok {
		return name, false, nil
	}

	rel, err := d.Relocator.RelocateAsset(resolved.Path, d.AssetDir)
	if err != nil {
		return "", false, err
	}

	if d.seen == nil {
		d.seen = map[string]string{}
	}
	d.seen[resolved.Path] = rel.Name
	d.Relocated = append(d.Relocated, rel)

	return rel.Name, false, nil
}
