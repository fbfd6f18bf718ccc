package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Relocated describes one asset copied into a document's asset directory.
type Relocated struct {
	Source      string // Canonical source path
	Destination string // Path of the copy
	Name        string // Normalized file name
	Bytes       int64  // Bytes copied (0 in dry-run mode)
}

// Relocator copies local assets into destination asset directories.
// The zero value is ready to use.
type Relocator struct {
	// DryRun computes names and destinations without touching the filesystem.
	DryRun bool
}

// Relocate copies localPath into destAssetDir under its normalized name,
// overwriting any existing file, and returns the normalized name.
// destAssetDir must already exist.
func (r *Relocator) Relocate(localPath, destAssetDir string) (string, error) {
	rel, err := r.RelocateAsset(localPath, destAssetDir)
	if err != nil {
		return "", err
	}
	return rel.Name, nil
}

// RelocateAsset is like Relocate but returns the full copy description.
func (r *Relocator) RelocateAsset(localPath, destAssetDir string) (Relocated, error) {
	name := NormalizeName(localPath)
	rel := Relocated{
		Source:      localPath,
		Destination: filepath.Join(destAssetDir, name),
		Name:        name,
	}

	if r != nil && r.DryRun {
		return rel, nil
	}

	n, err := copyFile(localPath, rel.Destination)
	if err != nil {
		return Relocated{}, fmt.Errorf("%w: %s -> %s: %w", ErrCopyFailed, localPath, rel.Destination, err)
	}
	rel.Bytes = n

	return rel, nil
}

// copyFile copies src to dst byte for byte, keeping the source permission bits.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src) //nolint:gosec // path comes from a resolved document reference
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
