package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"poolfs/pkg/disk"
	"poolfs/pkg/log"
	"poolfs/pkg/models"

	"github.com/google/uuid"
)

// StoreFile places data on the best-fit storage root in a single shot and
// returns the resulting placement. The write is forced to durable storage
// before returning.
func (e *Engine) StoreFile(data []byte, userID, originalFilename string) (*models.StoreResult, error) {
	size := int64(len(data))

	rootPath, err := e.pool.ChooseRoot(size)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	filename := buildFilename(fileID, originalFilename)

	dir, err := disk.Normalize(userDir(rootPath, userID))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to create user directory")
		return nil, fmt.Errorf("failed to create user directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, filename)

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		log.Error().Err(err).Str("path", filePath).Msg("Failed to create file")
		return nil, fmt.Errorf("failed to create %s: %w", filePath, err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(filePath)
		log.Error().Err(err).Str("path", filePath).Msg("Failed to write file")
		return nil, fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(filePath)
		log.Error().Err(err).Str("path", filePath).Msg("Failed to sync file")
		return nil, fmt.Errorf("failed to sync %s: %w", filePath, err)
	}
	if err := file.Close(); err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("Failed to close file")
	}

	log.Info().
		Str("file_id", fileID.String()).
		Str("path", filePath).
		Int64("size", size).
		Msg("File stored")

	return &models.StoreResult{
		FileID:   fileID.String(),
		Filename: filename,
		FilePath: filePath,
		RootPath: rootPath,
		Size:     size,
	}, nil
}
