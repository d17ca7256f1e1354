package server

import (
	"io"
	"net/http"
	"time"

	"poolfs/pkg/log"
	"poolfs/pkg/models"

	"github.com/labstack/echo/v4"
)

// storeFile handles single-shot uploads: the whole file arrives in one
// multipart request and is placed directly into the permanent namespace.
func (s *Server) storeFile(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "file parameter is required",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to open uploaded file",
		})
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close uploaded file")
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read uploaded file",
		})
	}

	result, err := s.engine.StoreFile(data, user, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to store file")
		return jsonError(ctx, err)
	}

	now := time.Now()
	record := &models.StoredFile{
		ID:               result.FileID,
		UserID:           user,
		Filename:         result.Filename,
		OriginalFilename: fileHeader.Filename,
		FilePath:         result.FilePath,
		RootPath:         result.RootPath,
		Size:             result.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateFile(record); err != nil {
		log.Error().Err(err).Str("file_id", result.FileID).Msg("Failed to persist file record")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, record)
}

// listFiles returns the caller's stored files.
func (s *Server) listFiles(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	files, err := s.store.ListFiles(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list files")
		return jsonError(ctx, err)
	}
	if files == nil {
		files = []models.StoredFile{}
	}

	return ctx.JSON(http.StatusOK, files)
}
