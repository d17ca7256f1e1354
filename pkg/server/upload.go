package server

import (
	"io"
	"net/http"
	"strconv"

	"poolfs/pkg/log"
	"poolfs/pkg/models"

	"github.com/labstack/echo/v4"
)

// initiateUpload starts a chunked upload session.
func (s *Server) initiateUpload(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	var req models.InitiateUploadRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	sess, err := s.manager.Initiate(user, req.Filename, req.TotalSize, req.ChunkSize)
	if err != nil {
		log.Error().Err(err).Str("filename", req.Filename).Int64("total_size", req.TotalSize).Msg("Failed to initiate upload")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, models.InitiateUploadResponse{
		UploadID:    sess.ID,
		ChunkSize:   sess.ChunkSize,
		TotalChunks: sess.TotalChunks,
	})
}

// uploadChunk applies one chunk to a session. The chunk bytes arrive as the
// raw request body; chunks may arrive out of order and may be retried.
func (s *Server) uploadChunk(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	chunkNumber, err := strconv.Atoi(ctx.Param("n"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "chunk number must be an integer",
		})
	}

	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read chunk body")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read chunk body",
		})
	}

	uploadID := ctx.Param("id")
	completed, err := s.manager.ApplyChunk(user, uploadID, chunkNumber, data)
	if err != nil {
		log.Error().Err(err).Str("upload_id", uploadID).Int("chunk", chunkNumber).Msg("Failed to apply chunk")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, models.ChunkResponse{
		ChunkNumber:     chunkNumber,
		Uploaded:        true,
		UploadCompleted: completed,
	})
}

// completeUpload finalizes a fully received session and returns the
// resulting file record.
func (s *Server) completeUpload(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	uploadID := ctx.Param("id")
	file, err := s.manager.Complete(user, uploadID)
	if err != nil {
		log.Error().Err(err).Str("upload_id", uploadID).Msg("Failed to complete upload")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, file)
}

// uploadStatus returns a read-only projection of the session.
func (s *Server) uploadStatus(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	sess, err := s.manager.Status(user, ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, sess)
}

// cancelUpload aborts a session regardless of partial progress.
func (s *Server) cancelUpload(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	uploadID := ctx.Param("id")
	if err := s.manager.Cancel(user, uploadID); err != nil {
		log.Error().Err(err).Str("upload_id", uploadID).Msg("Failed to cancel upload")
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
