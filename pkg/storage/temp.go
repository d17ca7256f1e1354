package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"poolfs/pkg/disk"
	"poolfs/pkg/log"
)

// CreateTemp picks a root sized to totalSize and preallocates the backing
// temp file for a chunked upload. The file is created at its full length up
// front (sparse where the filesystem supports it) so chunk writes never
// resize it.
func (e *Engine) CreateTemp(userID, uploadID string, totalSize int64) (tempPath, rootPath string, err error) {
	rootPath, err = e.pool.ChooseRoot(totalSize)
	if err != nil {
		return "", "", err
	}

	dir, err := disk.Normalize(tempDir(rootPath, userID))
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to create temp directory")
		return "", "", fmt.Errorf("failed to create temp directory %s: %w", dir, err)
	}

	tempPath = filepath.Join(dir, uploadID+TempExtension)

	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		log.Error().Err(err).Str("path", tempPath).Msg("Failed to create temp file")
		return "", "", fmt.Errorf("failed to create temp file %s: %w", tempPath, err)
	}
	if err := file.Truncate(totalSize); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		log.Error().Err(err).Str("path", tempPath).Int64("size", totalSize).Msg("Failed to preallocate temp file")
		return "", "", fmt.Errorf("failed to preallocate %s: %w", tempPath, err)
	}
	if err := file.Close(); err != nil {
		log.Warn().Err(err).Str("path", tempPath).Msg("Failed to close temp file")
	}

	log.Debug().
		Str("path", tempPath).
		Str("root", rootPath).
		Int64("size", totalSize).
		Msg("Temp file preallocated")

	return tempPath, rootPath, nil
}

// RemoveTemp deletes a session's backing temp file. A file that is already
// gone is not an error.
func (e *Engine) RemoveTemp(tempPath string) error {
	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("path", tempPath).Msg("Failed to remove temp file")
		return fmt.Errorf("failed to remove temp file %s: %w", tempPath, err)
	}
	return nil
}
