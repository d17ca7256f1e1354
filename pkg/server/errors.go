package server

import (
	"errors"
	"net/http"

	"poolfs/pkg/disk"
	"poolfs/pkg/pool"
	"poolfs/pkg/session"
	"poolfs/pkg/storage"

	"github.com/labstack/echo/v4"
)

// jsonError translates storage subsystem errors into HTTP responses.
func jsonError(ctx echo.Context, err error) error {
	var probeErr disk.ProbeError

	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrFileNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrForbidden):
		return ctx.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrAlreadyCompleted),
		errors.Is(err, session.ErrUploadIncomplete):
		return ctx.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidChunk),
		errors.Is(err, session.ErrInvalidRequest):
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, pool.ErrCapacityExhausted):
		return ctx.JSON(http.StatusInsufficientStorage, map[string]string{"error": err.Error()})
	case errors.As(err, &probeErr):
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": probeErr.Error()})
	default:
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// errMissingUser is rendered by echo's default error handler.
var errMissingUser = echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")

// requireUser rejects requests without a caller identity.
func requireUser(ctx echo.Context) (string, error) {
	user := userID(ctx)
	if user == "" {
		return "", errMissingUser
	}
	return user, nil
}
