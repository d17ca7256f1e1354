// Package server exposes the storage engine over HTTP: one route per
// upload-session lifecycle step plus capacity, inventory and cleanup
// operations.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poolfs/pkg/log"
	"poolfs/pkg/pool"
	"poolfs/pkg/reaper"
	"poolfs/pkg/session"
	"poolfs/pkg/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server wires the HTTP surface to the storage subsystem.
type Server struct {
	echo    *echo.Echo
	pool    *pool.Pool
	engine  *storage.Engine
	store   *session.Store
	manager *session.Manager
	reaper  *reaper.Reaper
}

// New creates the HTTP server over the assembled storage subsystem.
func New(p *pool.Pool, engine *storage.Engine, store *session.Store, manager *session.Manager, reap *reaper.Reaper) *Server {
	return &Server{
		echo:    echo.New(),
		pool:    p,
		engine:  engine,
		store:   store,
		manager: manager,
		reaper:  reap,
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(addr string) error {
	s.setupRoutes()

	go func() {
		log.Info().Str("addr", addr).Msg("Starting poolfs server")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.Shutdown()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())

	s.echo.GET("/health", s.health)

	s.echo.POST("/files", s.storeFile)
	s.echo.GET("/files", s.listFiles)
	s.echo.GET("/files/:id/download", s.downloadFile)
	s.echo.DELETE("/files/:id", s.deleteFile)

	s.echo.POST("/uploads", s.initiateUpload)
	s.echo.PUT("/uploads/:id/chunks/:n", s.uploadChunk)
	s.echo.POST("/uploads/:id/complete", s.completeUpload)
	s.echo.GET("/uploads/:id", s.uploadStatus)
	s.echo.DELETE("/uploads/:id", s.cancelUpload)

	s.echo.GET("/storage/info", s.storageInfo)
	s.echo.GET("/storage/report", s.usageReport)
	s.echo.GET("/storage/temp", s.tempInfo)
	s.echo.POST("/storage/cleanup", s.cleanupTemp)
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// userID extracts the caller identity established by the authentication
// layer in front of this service.
func userID(ctx echo.Context) string {
	return ctx.Request().Header.Get("X-User-ID")
}
