package gitbook

import (
	"fmt"

	"github.com/leonardomso/gbconv/internal/asset"
)

// rewriteFunc is one pipeline stage.
type rewriteFunc func(doc *Document, content string) (string, error)

// stage binds a construct to its rewriter.
type stage struct {
	construct Construct
	rewrite   rewriteFunc
}

// stages is the fixed pipeline order. Code runs first so that raw code is
// unwrapped before any other construct is searched for.
var stages = []stage{
	{ConstructCode, rewriteCode},
	{ConstructEmbed, rewriteEmbedURLs},
	{ConstructFile, RewriteFileLinks},
	{ConstructHint, rewriteHints},
	{ConstructImage, RewriteImages},
	{ConstructTabs, rewriteTabs},
}

// Pipeline applies the six rewriters in order.
type Pipeline struct {
	// Relocator is handed to every document the pipeline runs.
	// Nil copies assets for real.
	Relocator *asset.Relocator
}

// New creates a Pipeline that copies assets with relocator.
func New(relocator *asset.Relocator) *Pipeline {
	return &Pipeline{Relocator: relocator}
}

// Run transforms content and records what happened in doc.
// The first failing stage aborts the document.
func (p *Pipeline) Run(doc *Document, content string) (string, error) {
	if doc.Relocator == nil && p != nil {
		doc.Relocator = p.Relocator
	}

	var err error
	for _, s := range stages {
		content, err = s.rewrite(doc, content)
		if err != nil {
			return "", fmt.Errorf("%s rewriter: %w", s.construct, err)
		}
	}
	return content, nil
}

// Transform runs the full pipeline over one document's content, resolving
// references against documentDir and copying assets into destAssetDir.
func Transform(content, documentDir, destAssetDir string) (string, error) {
	return New(nil).Run(NewDocument(documentDir, destAssetDir), content)
}
