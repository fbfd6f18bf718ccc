package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates the given files (slash-separated, relative to root).
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+f), 0o644))
	}
}

func baseNames(files []string) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// FindFiles Tests
// =============================================================================

func TestFindFiles(t *testing.T) {
	t.Parallel()

	t.Run("NestedDirectories", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "root.md", "a/nested.md", "a/b/c/deep.md", "notes.txt")

		files, err := FindFiles(root, []string{".md"})
		require.NoError(t, err)
		assert.Equal(t, []string{"deep.md", "nested.md", "root.md"}, baseNames(files))
	})

	t.Run("SkipsHiddenEntries", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "visible.md", ".hidden/ignored.md", ".draft.md", ".gitbook/assets/readme.md")

		files, err := FindFiles(root, []string{".md"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "visible.md", filepath.Base(files[0]))
	})

	t.Run("MixedCaseExtensions", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "lower.md", "UPPER.MD", "Mixed.Md")

		files, err := FindFiles(root, []string{".md"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mixed.Md", "UPPER.MD", "lower.md"}, baseNames(files))
	})

	t.Run("EmptyExtensions", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "a.md")

		files, err := FindFiles(root, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		t.Parallel()
		files, err := FindFiles(filepath.Join(t.TempDir(), "nonexistent"), []string{".md"})
		assert.Error(t, err)
		assert.Nil(t, files)
	})

	t.Run("MultipleExtensions", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "a.md", "b.markdown", "c.txt")

		files, err := FindFiles(root, []string{".md", ".markdown"})
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})
}

// =============================================================================
// Mirror Tests
// =============================================================================

func TestMirror(t *testing.T) {
	t.Parallel()

	root := filepath.Join("docs")
	out := filepath.Join("docs-out")

	t.Run("Nested", func(t *testing.T) {
		t.Parallel()
		doc, err := Mirror(root, out, filepath.Join("docs", "guide", "intro.md"), LayoutNested)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("docs", "guide"), doc.SourceDir)
		assert.Equal(t, "guide/intro.md", doc.RelPath)
		assert.Equal(t, filepath.Join("docs-out", "guide", "intro", "intro.md"), doc.OutputPath)
		assert.Equal(t, filepath.Join("docs-out", "guide", "intro", "assets"), doc.AssetDir)
	})

	t.Run("DefaultLayoutIsNested", func(t *testing.T) {
		t.Parallel()
		doc, err := Mirror(root, out, filepath.Join("docs", "README.md"), "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("docs-out", "README", "README.md"), doc.OutputPath)
	})

	t.Run("Flat", func(t *testing.T) {
		t.Parallel()
		doc, err := Mirror(root, out, filepath.Join("docs", "guide", "intro.md"), LayoutFlat)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("docs-out", "guide", "intro.md"), doc.OutputPath)
		assert.Equal(t, filepath.Join("docs-out", "guide", "assets"), doc.AssetDir)
	})

	t.Run("FlatAtRoot", func(t *testing.T) {
		t.Parallel()
		doc, err := Mirror(root, out, filepath.Join("docs", "index.md"), LayoutFlat)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("docs-out", "index.md"), doc.OutputPath)
		assert.Equal(t, filepath.Join("docs-out", "assets"), doc.AssetDir)
	})

	t.Run("UnknownLayout", func(t *testing.T) {
		t.Parallel()
		_, err := Mirror(root, out, filepath.Join("docs", "a.md"), "spiral")
		assert.Error(t, err)
	})

	t.Run("OutsideRoot", func(t *testing.T) {
		t.Parallel()
		_, err := Mirror(root, out, filepath.Join("elsewhere", "a.md"), LayoutNested)
		assert.Error(t, err)
	})
}

// =============================================================================
// FindDocuments Tests
// =============================================================================

func TestFindDocuments(t *testing.T) {
	t.Parallel()

	t.Run("MirrorsEveryDocument", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		out := t.TempDir()
		writeTree(t, root, "README.md", "guide/setup.md")

		docs, err := FindDocuments(ScanOptions{Root: root, OutputRoot: out})
		require.NoError(t, err)
		require.Len(t, docs, 2)

		byRel := map[string]Document{}
		for _, d := range docs {
			byRel[d.RelPath] = d
		}
		assert.Equal(t, filepath.Join(out, "guide", "setup", "setup.md"), byRel["guide/setup.md"].OutputPath)
		assert.Equal(t, filepath.Join(out, "README", "assets"), byRel["README.md"].AssetDir)
	})

	t.Run("IncludeAndExclude", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "guide/a.md", "guide/drafts/b.md", "api/c.md")

		docs, err := FindDocuments(ScanOptions{
			Root:       root,
			OutputRoot: t.TempDir(),
			Include:    []string{"guide/*"},
			Exclude:    []string{"*/drafts/*"},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "guide/a.md", docs[0].RelPath)
	})

	t.Run("InvalidGlob", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "a.md")

		_, err := FindDocuments(ScanOptions{Root: root, Include: []string{"[invalid"}})
		assert.Error(t, err)
	})

	t.Run("OutputInsideSourceIsSkipped", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "a.md", "out/a/a.md")

		docs, err := FindDocuments(ScanOptions{Root: root, OutputRoot: filepath.Join(root, "out")})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "a.md", docs[0].RelPath)
	})

	t.Run("ExtraExtensions", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, "a.md", "b.markdown")

		docs, err := FindDocuments(ScanOptions{Root: root, OutputRoot: t.TempDir(), Extensions: []string{".md", ".markdown"}})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

// =============================================================================
// Directory Tests
// =============================================================================

func TestCreateOutputDirectories(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	docs := []Document{
		{AssetDir: filepath.Join(out, "a", "assets")},
		{AssetDir: filepath.Join(out, "b", "c", "assets")},
	}

	require.NoError(t, CreateOutputDirectories(docs))
	assert.DirExists(t, docs[0].AssetDir)
	assert.DirExists(t, docs[1].AssetDir)

	// Idempotent.
	require.NoError(t, CreateOutputDirectories(docs))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, ValidateSource(dir))
	assert.ErrorIs(t, ValidateSource(file), ErrSourceNotDir)
	assert.ErrorIs(t, ValidateSource(filepath.Join(dir, "missing")), ErrSourceMissing)

	assert.NoError(t, ValidateOutput(dir))
	assert.NoError(t, ValidateOutput(filepath.Join(dir, "new")))
	assert.ErrorIs(t, ValidateOutput(file), ErrOutputNotDir)
}

func TestIsValidLayout(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidLayout("nested"))
	assert.True(t, IsValidLayout("FLAT"))
	assert.False(t, IsValidLayout("tree"))
}
