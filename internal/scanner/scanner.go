// Package scanner finds GitBook documents in a source tree and computes
// where each converted document and its assets go.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leonardomso/gbconv/internal/asset"
)

// DefaultExtensions are the file extensions converted when none are configured.
var DefaultExtensions = []string{".md"}

// Layout controls how output paths mirror source paths.
type Layout string

const (
	// LayoutNested gives every document its own folder named after the file:
	// docs/guide/intro.md -> out/guide/intro/intro.md + out/guide/intro/assets/.
	// Asset directories of different documents never overlap.
	LayoutNested Layout = "nested"

	// LayoutFlat mirrors the source directory structure directly:
	// docs/guide/intro.md -> out/guide/intro.md + out/guide/assets/.
	// Documents in the same directory share one asset directory.
	LayoutFlat Layout = "flat"
)

// ValidLayouts returns all valid layout names.
func ValidLayouts() []string {
	return []string{string(LayoutNested), string(LayoutFlat)}
}

// IsValidLayout checks if a layout name is valid.
func IsValidLayout(s string) bool {
	switch Layout(strings.ToLower(s)) {
	case LayoutNested, LayoutFlat:
		return true
	default:
		return false
	}
}

// Document describes one source file and its mirrored output locations.
type Document struct {
	// SourcePath is the path of the source file.
	SourcePath string

	// SourceDir is the directory containing the source file.
	// Relative asset references are resolved against it.
	SourceDir string

	// RelPath is SourcePath relative to the source root, slash separated.
	RelPath string

	// OutputPath is where the converted document is written.
	OutputPath string

	// AssetDir is where the document's assets are copied.
	AssetDir string
}

// ScanOptions holds options for scanning a source tree.
type ScanOptions struct {
	// Root is the source directory to scan.
	Root string

	// OutputRoot is the directory converted documents are written under.
	// If it lies inside Root it is not scanned.
	OutputRoot string

	// Extensions are the file extensions to convert, with the leading dot.
	// Defaults to DefaultExtensions.
	Extensions []string

	// Include patterns (glob) - if set, only matching files are converted.
	Include []string

	// Exclude patterns (glob) - matching files are skipped.
	Exclude []string

	// Layout selects the output path scheme. Defaults to LayoutNested.
	Layout Layout
}

// FindFiles walks a directory and returns all files matching the given extensions.
// Extensions should include the leading dot (e.g., ".md").
// Hidden files and directories (starting with .) are skipped, except root itself.
func FindFiles(root string, extensions []string) ([]string, error) {
	return findFiles(root, extensions, "")
}

func findFiles(root string, extensions []string, skipDir string) ([]string, error) {
	if len(extensions) == 0 {
		return nil, nil
	}

	normalizedExts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		normalizedExts[strings.ToLower(ext)] = true
	}

	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if skipDir != "" && path != root && sameDir(path, skipDir) {
				return filepath.SkipDir
			}
			return nil
		}

		if normalizedExts[strings.ToLower(filepath.Ext(d.Name()))] {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// sameDir reports whether two paths name the same directory.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// FindDocuments scans opts.Root and returns one Document per matching file,
// in walk order (lexical).
func FindDocuments(opts ScanOptions) ([]Document, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	files, err := findFiles(opts.Root, exts, opts.OutputRoot)
	if err != nil {
		return nil, err
	}

	if len(opts.Include) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.Exclude) > 0 {
		files, err = filterByGlobPatterns(files, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	docs := make([]Document, 0, len(files))
	for _, f := range files {
		doc, err := Mirror(opts.Root, opts.OutputRoot, f, opts.Layout)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Mirror computes the output locations of the source file path found under root.
func Mirror(root, outputRoot, path string, layout Layout) (Document, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Document{}, fmt.Errorf("mirroring %s: %w", path, err)
	}
	if rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Document{}, fmt.Errorf("mirroring %s: not under %s", path, root)
	}

	name := filepath.Base(path)

	var outDir string
	switch Layout(strings.ToLower(string(layout))) {
	case LayoutFlat:
		outDir = filepath.Join(outputRoot, filepath.Dir(rel))
	case LayoutNested, "":
		outDir = filepath.Join(outputRoot, strings.TrimSuffix(rel, filepath.Ext(rel)))
	default:
		return Document{}, fmt.Errorf("unknown layout %q (valid: %s)", layout, strings.Join(ValidLayouts(), ", "))
	}

	return Document{
		SourcePath: path,
		SourceDir:  filepath.Dir(path),
		RelPath:    filepath.ToSlash(rel),
		OutputPath: filepath.Join(outDir, name),
		AssetDir:   filepath.Join(outDir, asset.DirName),
	}, nil
}

// CreateOutputDirectories ensures every document's asset directory
// (and therefore its output directory) exists.
func CreateOutputDirectories(docs []Document) error {
	for _, d := range docs {
		if err := os.MkdirAll(d.AssetDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", d.AssetDir, err)
		}
	}
	return nil
}

// filterByGlobPatterns filters files by glob patterns.
// If include=true, keeps only files matching any pattern.
// If include=false, removes files matching any pattern.
func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	if len(patterns) == 0 {
		return files, nil
	}

	compiled, err := CompilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		// Match against the path relative to root with forward slashes.
		relPath, err := filepath.Rel(root, f)
		if err != nil {
			relPath = f
		}
		relPath = filepath.ToSlash(relPath)

		if matchesAnyGlob(relPath, compiled) == include {
			result = append(result, f)
		}
	}

	return result, nil
}

// CompilePatterns compiles glob patterns. Patterns match the slash-separated
// path relative to the source root, and '*' also matches across '/'.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// matchesAnyGlob checks if a path matches any of the compiled glob patterns.
func matchesAnyGlob(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
