package server

import (
	"fmt"
	"net/http"

	"poolfs/pkg/log"
	"poolfs/pkg/session"

	"github.com/labstack/echo/v4"
)

// downloadFile streams a stored file back to its owner.
func (s *Server) downloadFile(ctx echo.Context) error {
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

	blob, err := s.engine.Open(file.FilePath)
	if err != nil {
		log.Error().Err(err).Str("file_id", file.ID).Str("path", file.FilePath).Msg("Failed to open stored file")
		return jsonError(ctx, err)
	}
	defer func() {
		if closeErr := blob.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", file.FilePath).Msg("Failed to close stored file")
		}
	}()

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", file.OriginalFilename))

	return ctx.Stream(http.StatusOK, echo.MIMEOctetStream, blob)
}
