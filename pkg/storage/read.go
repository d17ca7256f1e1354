package storage

import (
	"fmt"
	"os"

	"poolfs/pkg/disk"
)

// Open opens a stored file for streaming reads. Returns ErrFileNotFound if
// the path no longer exists.
func (e *Engine) Open(path string) (*os.File, error) {
	canonical, err := disk.Normalize(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(canonical)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, canonical)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", canonical, err)
	}
	return file, nil
}

// FileExists reports whether a stored file is still present on disk.
func (e *Engine) FileExists(path string) bool {
	canonical, err := disk.Normalize(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(canonical)
	return err == nil
}
