package scanner

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for source and output validation.
var (
	ErrSourceMissing = errors.New("source path does not exist")
	ErrSourceNotDir  = errors.New("source path exists but is not a directory")
	ErrOutputNotDir  = errors.New("output path exists but is not a directory")
)

// ValidateSource checks that path exists and is a directory.
func ValidateSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return fmt.Errorf("checking source %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceNotDir, path)
	}
	return nil
}

// ValidateOutput checks that path, if it exists, is a directory.
// A missing output path is fine; it is created along with the asset directories.
func ValidateOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking output %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutputNotDir, path)
	}
	return nil
}
