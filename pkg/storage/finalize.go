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

// Finalize atomically promotes a fully received temp file into the
// permanent namespace under rootPath/users/<owner>/. The final size is read
// back from the filesystem, which is the source of truth; the declared
// upload size is trusted but never verified. A rename failure is propagated
// (the upload cannot silently stay incomplete); failure to clean a stale
// temp artifact afterwards is only logged.
func (e *Engine) Finalize(tempPath, userID, originalFilename, rootPath string) (*models.StoreResult, error) {
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

	finalPath := filepath.Join(dir, filename)

	if err := os.Rename(tempPath, finalPath); err != nil {
		log.Error().Err(err).Str("temp", tempPath).Str("final", finalPath).Msg("Finalize rename failed")
		return nil, fmt.Errorf("failed to promote %s to %s: %w", tempPath, finalPath, err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		log.Error().Err(err).Str("path", finalPath).Msg("Failed to stat finalized file")
		return nil, fmt.Errorf("failed to stat %s: %w", finalPath, err)
	}

	// Best-effort: anything left behind at the old temp path is stale.
	if err := e.RemoveTemp(tempPath); err != nil {
		log.Warn().Err(err).Str("path", tempPath).Msg("Failed to clean stale temp artifact after finalize")
	}

	log.Info().
		Str("file_id", fileID.String()).
		Str("path", finalPath).
		Int64("size", info.Size()).
		Msg("Upload finalized")

	return &models.StoreResult{
		FileID:   fileID.String(),
		Filename: filename,
		FilePath: finalPath,
		RootPath: rootPath,
		Size:     info.Size(),
	}, nil
}
