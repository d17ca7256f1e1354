package server

import (
	"net/http"

	"poolfs/pkg/log"
	"poolfs/pkg/session"

	"github.com/labstack/echo/v4"
)

// deleteFile removes a stored file: the blob first, then the record.
func (s *Server) deleteFile(ctx echo.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	file, err := s.store.GetFile(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, err)
	}
	if file.UserID != user {
		return jsonError(ctx, session.ErrForbidden)
	}

	if err := s.engine.DeleteFile(file.FilePath); err != nil {
		log.Error().Err(err).Str("file_id", file.ID).Str("path", file.FilePath).Msg("Failed to delete stored file")
		return jsonError(ctx, err)
	}
	if err := s.store.DeleteFile(file.ID); err != nil {
		return jsonError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
