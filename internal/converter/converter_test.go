package converter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/gbconv/internal/asset"
	"github.com/leonardomso/gbconv/internal/gitbook"
	"github.com/leonardomso/gbconv/internal/logging"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// =============================================================================
// Test Fixtures
// =============================================================================

// writeFile creates path (and its parents) with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// prepare scans src into out and creates the output directories.
func prepare(t *testing.T, src, out string, layout scanner.Layout) []scanner.Document {
	t.Helper()

	docs, err := scanner.FindDocuments(scanner.ScanOptions{Root: src, OutputRoot: out, Layout: layout})
	require.NoError(t, err)
	require.NoError(t, scanner.CreateOutputDirectories(docs))

	return docs
}

// quietContext carries a logger that discards every record.
func quietContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return logging.WithLogger(ctx, log.New(io.Discard))
}

// =============================================================================
// End-to-end
// =============================================================================

func TestConvertAll_FlatLayoutRelocatesImage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "docs")
	out := filepath.Join(root, "docs-out")

	writeFile(t, filepath.Join(src, "guide", "setup.md"),
		"# Setup\n\n<img src=\"./diagram.png\" alt=\"Architecture\">\n")
	writeFile(t, filepath.Join(src, "guide", "diagram.png"), "0123456789")

	docs := prepare(t, src, out, scanner.LayoutFlat)
	require.Len(t, docs, 1)

	results, err := New(Options{}).ConvertAll(quietContext(t), docs)
	require.NoError(t, err)
	require.Len(t, results, 1)

	converted, err := os.ReadFile(filepath.Join(out, "guide", "setup.md"))
	require.NoError(t, err)
	assert.Contains(t, string(converted), "![image](assets/diagram.png)")
	assert.NotContains(t, string(converted), "<img")

	copied, err := os.ReadFile(filepath.Join(out, "guide", "assets", "diagram.png"))
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(copied))

	r := results[0]
	assert.Equal(t, "Setup", r.Title)
	assert.Equal(t, 1, r.Rewrites[gitbook.ConstructImage])
	require.Len(t, r.Assets, 1)
	assert.Equal(t, "diagram.png", r.Assets[0].Name)
	assert.Equal(t, int64(10), r.Assets[0].Bytes)
}

func TestConvertAll_NestedLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "docs")
	out := filepath.Join(root, "out")

	writeFile(t, filepath.Join(src, "intro.md"),
		"{% file src=\"files/my report.pdf\" %}\n{% embed url=\"https://example.com\" %}\n{% endembed %}\n")
	writeFile(t, filepath.Join(src, "files", "my report.pdf"), "%PDF")

	docs := prepare(t, src, out, scanner.LayoutNested)
	require.Len(t, docs, 1)

	results, err := New(Options{}).ConvertAll(quietContext(t), docs)
	require.NoError(t, err)
	require.Len(t, results, 1)

	converted, err := os.ReadFile(filepath.Join(out, "intro", "intro.md"))
	require.NoError(t, err)
	assert.Equal(t,
		"[my_report.pdf](assets/my_report.pdf)\n[https://example.com](https://example.com)\n\n",
		string(converted))

	_, err = os.Stat(filepath.Join(out, "intro", "assets", "my_report.pdf"))
	assert.NoError(t, err)
}

// =============================================================================
// ConvertFile Tests
// =============================================================================

func TestConvertFile_RemoteImageIsSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	content := "<img src=\"https://cdn.example.com/a.png\" alt=\"remote\">\n"
	writeFile(t, filepath.Join(src, "page.md"), content)

	docs := prepare(t, src, filepath.Join(root, "out"), scanner.LayoutNested)

	r, err := New(Options{}).ConvertFile(quietContext(t), docs[0])
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, r.SkippedRemote)
	assert.Empty(t, r.Assets)
	assert.Equal(t, 0, r.TotalRewrites())

	converted, err := os.ReadFile(docs[0].OutputPath)
	require.NoError(t, err)
	assert.Equal(t, content, string(converted))
}

func TestConvertFile_ReadError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	doc, err := scanner.Mirror(root, filepath.Join(root, "out"), filepath.Join(root, "missing.md"), scanner.LayoutNested)
	require.NoError(t, err)

	_, err = New(Options{}).ConvertFile(quietContext(t), doc)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertFile_WriteError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "page.md"), "plain text\n")

	// Output directories are never created.
	docs, err := scanner.FindDocuments(scanner.ScanOptions{Root: src, OutputRoot: filepath.Join(root, "out")})
	require.NoError(t, err)

	_, err = New(Options{}).ConvertFile(quietContext(t), docs[0])

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}

func TestConvertFile_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	writeFile(t, filepath.Join(src, "page.md"), "{% file src=\"a.txt\" %}\n")
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	docs, err := scanner.FindDocuments(scanner.ScanOptions{Root: src, OutputRoot: out})
	require.NoError(t, err)

	c := New(Options{DryRun: true})
	assert.True(t, c.DryRun())

	r, err := c.ConvertFile(quietContext(t), docs[0])
	require.NoError(t, err)

	require.Len(t, r.Assets, 1)
	assert.Equal(t, "a.txt", r.Assets[0].Name)
	assert.Equal(t, 1, r.Rewrites[gitbook.ConstructFile])
	assert.Equal(t, len("[a.txt](assets/a.txt)\n"), r.BytesOut)

	_, err = os.Stat(out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// =============================================================================
// ConvertAll Tests
// =============================================================================

func TestConvertAll_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")

	// Walk order is lexical: a.md, b.md, c.md.
	writeFile(t, filepath.Join(src, "a.md"), "# A\n")
	writeFile(t, filepath.Join(src, "b.md"), "{% file src=\"gone.pdf\" %}\n")
	writeFile(t, filepath.Join(src, "c.md"), "# C\n")

	docs := prepare(t, src, out, scanner.LayoutFlat)
	require.Len(t, docs, 3)

	var seen []string
	results, err := New(Options{}).ConvertEach(quietContext(t), docs, func(r Result) {
		seen = append(seen, r.Document.RelPath)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrUnresolvedReference)
	assert.Contains(t, err.Error(), "file rewriter")

	require.Len(t, results, 1)
	assert.Equal(t, "a.md", results[0].Document.RelPath)
	assert.Equal(t, []string{"a.md"}, seen)

	// Earlier output is kept, later documents are never written.
	_, err = os.Stat(filepath.Join(out, "a.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "c.md"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConvertAll_CanceledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	writeFile(t, filepath.Join(src, "a.md"), "# A\n")

	docs := prepare(t, src, out, scanner.LayoutFlat)

	ctx, cancel := context.WithCancel(quietContext(t))
	cancel()

	results, err := New(Options{}).ConvertAll(ctx, docs)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.NoFileExists(t, filepath.Join(out, "a.md"))
}

func TestConvertFile_LogsToContextLogger(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "guide.md"), "# Guide\n")
	docs := prepare(t, src, filepath.Join(root, "out"), scanner.LayoutFlat)

	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ctx = logging.WithLogger(ctx, logging.NewWithWriter(&buf, "debug"))

	_, err := New(Options{}).ConvertFile(ctx, docs[0])
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "converted document")
	assert.Contains(t, buf.String(), "guide.md")
}

func TestConvertAll_Empty(t *testing.T) {
	t.Parallel()

	results, err := New(Options{}).ConvertAll(quietContext(t), nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

// =============================================================================
// Summary Tests
// =============================================================================

func sampleResults() []Result {
	return []Result{
		{
			Document: scanner.Document{RelPath: "a.md", OutputPath: "out/a.md"},
			Title:    "Alpha",
			Rewrites: map[gitbook.Construct]int{gitbook.ConstructCode: 2, gitbook.ConstructImage: 1},
			Assets:   []asset.Relocated{{Name: "pic.png"}},
		},
		{
			Document:      scanner.Document{RelPath: "b.md", OutputPath: "out/b.md"},
			Rewrites:      map[gitbook.Construct]int{gitbook.ConstructHint: 1},
			SkippedRemote: []string{"https://example.com/x.png"},
		},
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	totals := Summarize(sampleResults())

	assert.Equal(t, 2, totals.Documents)
	assert.Equal(t, 4, totals.TotalRewrites())
	assert.Equal(t, 2, totals.Rewrites[gitbook.ConstructCode])
	assert.Equal(t, 1, totals.Assets)
	assert.Equal(t, 1, totals.SkippedRemote)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "No documents converted.", Summary(nil, false))
	})

	t.Run("Converted", func(t *testing.T) {
		t.Parallel()
		s := Summary(sampleResults(), false)
		assert.Contains(t, s, "Converted 2 document(s): 4 construct(s) rewritten, 1 asset(s) relocated.")
		assert.Contains(t, s, "Left 1 remote")
	})

	t.Run("DryRun", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, Summary(sampleResults(), true), "Would convert 2 document(s)")
	})
}

func TestDetailedSummary(t *testing.T) {
	t.Parallel()

	s := DetailedSummary(sampleResults(), false)

	assert.Contains(t, s, "a.md -> out/a.md")
	assert.Contains(t, s, "title: Alpha")
	assert.Contains(t, s, "rewrites: code=2 image=1")
	assert.Contains(t, s, "asset: pic.png")
	assert.Contains(t, s, "remote: https://example.com/x.png")
	assert.Equal(t, "No documents converted.", DetailedSummary(nil, false))
}

func TestFormatRewrites(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatRewrites(nil))
	assert.Equal(t, "code=1 tabs=3", FormatRewrites(map[gitbook.Construct]int{
		gitbook.ConstructTabs: 3,
		gitbook.ConstructCode: 1,
		gitbook.ConstructHint: 0,
	}))
}

// =============================================================================
// ExtractTitle Tests
// =============================================================================

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "NoHeading", content: "just text\n", expected: ""},
		{name: "Empty", content: "", expected: ""},
		{name: "FirstH1", content: "# Title\n\n# Other\n", expected: "Title"},
		{name: "H1AfterH2", content: "## Sub\n\n# Main\n", expected: "Main"},
		{name: "FallbackToFirstHeading", content: "### Using Go\nbody\n## Later\n", expected: "Using Go"},
		{name: "InlineMarkup", content: "# Hello *world*\n", expected: "Hello world"},
		{name: "SetextHeading", content: "Title\n=====\n", expected: "Title"},
		{name: "H1InsideQuote", content: "> # Quoted\n\n# Real\n", expected: "Quoted"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ExtractTitle([]byte(tt.content)))
		})
	}
}
