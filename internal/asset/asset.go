// Package asset resolves asset references found in GitBook documents and
// relocates local assets next to the converted document.
package asset

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// DirName is the name of the per-document asset directory.
// Rewritten references always point inside it.
const DirName = "assets"

// Sentinel errors for asset handling.
var (
	// ErrUnresolvedReference indicates a local reference that does not exist on disk.
	ErrUnresolvedReference = errors.New("unresolved asset reference")

	// ErrCopyFailed indicates an asset could not be copied to its destination.
	ErrCopyFailed = errors.New("asset copy failed")
)

// Reference is a classified asset reference.
type Reference struct {
	// Raw is the reference exactly as it appeared in the document.
	Raw string

	// Path is the canonical absolute path of a local reference.
	// Empty for remote references.
	Path string

	// Remote is true when Raw is an absolute URL.
	Remote bool
}

// ResolveError reports a local reference that could not be canonicalized.
type ResolveError struct {
	Err         error
	DocumentDir string
	Reference   string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving %q in %s: %v", e.Reference, e.DocumentDir, e.Err)
}

// Unwrap allows errors.Is(err, ErrUnresolvedReference) and access to the I/O cause.
func (e *ResolveError) Unwrap() []error {
	return []error{ErrUnresolvedReference, e.Err}
}

// schemePrefix matches a URL scheme followed by a non-empty remainder.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:.`)

// IsRemote reports whether ref is an absolute URL.
// "https://x/y.png" and "mailto:a@b" are remote; "./a.png" and "img/a b.png" are not.
// URLs that url.Parse rejects only for a malformed escape, such as a literal
// "100%" in a badge URL, still count as remote when they carry a scheme.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		var escErr url.EscapeError
		return errors.As(err, &escErr) && schemePrefix.MatchString(ref)
	}
	return u.IsAbs()
}

// Resolve classifies ref and, for local references, returns the canonical
// absolute path relative to documentDir.
func Resolve(ref, documentDir string) (Reference, error) {
	if IsRemote(ref) {
		return Reference{Raw: ref, Remote: true}, nil
	}

	joined := ref
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(documentDir, ref)
	}

	abs, err := filepath.Abs(joined)
	if err != nil {
		return Reference{}, &ResolveError{Err: err, DocumentDir: documentDir, Reference: ref}
	}

	// EvalSymlinks fails when any component is missing or is not a directory.
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Reference{}, &ResolveError{Err: err, DocumentDir: documentDir, Reference: ref}
	}

	return Reference{Raw: ref, Path: canonical}, nil
}

// NormalizeName returns the file name of path with every space replaced by an underscore.
func NormalizeName(path string) string {
	return strings.ReplaceAll(filepath.Base(path), " ", "_")
}

// Link returns the document-relative reference to a relocated asset.
func Link(name string) string {
	return DirName + "/" + name
}
