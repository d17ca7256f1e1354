package storage

import (
	"fmt"
	"os"

	"poolfs/pkg/disk"
	"poolfs/pkg/log"
)

// DeleteFile removes a stored file from disk. A file that is already gone
// is not an error.
func (e *Engine) DeleteFile(path string) error {
	canonical, err := disk.Normalize(path)
	if err != nil {
		return err
	}

	if err := os.Remove(canonical); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("path", canonical).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete %s: %w", canonical, err)
	}
	return nil
}
