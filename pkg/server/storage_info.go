package server

import (
	"net/http"
	"strconv"
	"time"

	"poolfs/pkg/log"
	"poolfs/pkg/reaper"

	"github.com/labstack/echo/v4"
)

// storageInfo returns the capacity aggregate across all storage roots.
func (s *Server) storageInfo(ctx echo.Context) error {
	info, err := s.pool.StorageInfo()
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect storage info")
		return jsonError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, info)
}

// usageReport returns the human-readable per-root capacity report.
func (s *Server) usageReport(ctx echo.Context) error {
	report, err := s.pool.UsageReport()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build usage report")
		return jsonError(ctx, err)
	}
	return ctx.String(http.StatusOK, report)
}

// tempInfo returns the temp-artifact inventory.
func (s *Server) tempInfo(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.reaper.TempInfo())
}

// cleanupTemp runs an on-demand sweep. The optional max_age_hours query
// parameter overrides the default threshold.
func (s *Server) cleanupTemp(ctx echo.Context) error {
	maxAge := reaper.DefaultMaxAge

	if raw := ctx.QueryParam("max_age_hours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "max_age_hours must be a non-negative number",
			})
		}
		maxAge = time.Duration(hours * float64(time.Hour))
	}

	result := s.reaper.Sweep(maxAge)

	log.Info().
		Int("files_removed", result.FilesRemoved).
		Uint64("bytes_freed", result.BytesFreed).
		Dur("max_age", maxAge).
		Msg("On-demand temp cleanup finished")

	return ctx.JSON(http.StatusOK, result)
}
