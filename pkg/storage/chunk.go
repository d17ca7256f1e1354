package storage

import (
	"fmt"
	"os"

	"poolfs/pkg/log"
)

// WriteChunk writes data at offset into an existing preallocated temp file
// and forces it to durable storage before returning. The file is never
// created or resized here; preallocation already happened in CreateTemp.
// Writes to disjoint offsets commute, so out-of-order and repeated chunk
// delivery are safe.
func (e *Engine) WriteChunk(tempPath string, offset int64, data []byte) error {
	file, err := os.OpenFile(tempPath, os.O_WRONLY, 0)
	if err != nil {
		log.Error().Err(err).Str("path", tempPath).Msg("Failed to open temp file for chunk write")
		return fmt.Errorf("failed to open temp file %s: %w", tempPath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", tempPath).Msg("Failed to close temp file")
		}
	}()

	if _, err := file.WriteAt(data, offset); err != nil {
		log.Error().Err(err).Str("path", tempPath).Int64("offset", offset).Msg("Chunk write failed")
		return fmt.Errorf("failed to write chunk at offset %d in %s: %w", offset, tempPath, err)
	}

	if err := file.Sync(); err != nil {
		log.Error().Err(err).Str("path", tempPath).Msg("Chunk sync failed")
		return fmt.Errorf("failed to sync %s: %w", tempPath, err)
	}

	return nil
}
