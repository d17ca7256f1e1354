// Package storage performs the raw filesystem work of the upload pipeline:
// single-shot stores, temp-file preallocation, positional chunk writes and
// the atomic promotion of completed temp files into the permanent namespace.
package storage

import (
	"path/filepath"
	"strings"

	"poolfs/pkg/pool"

	"github.com/google/uuid"
)

const (
	dirPerm  = 0750
	filePerm = 0640

	// TempExtension marks files the reaper is allowed to collect.
	TempExtension = ".tmp"

	usersDirName = "users"
	tempDirName  = "temp"
)

// Engine places bytes onto storage roots chosen by the pool.
type Engine struct {
	pool *pool.Pool
}

// New creates a storage engine over the given root pool.
func New(p *pool.Pool) *Engine {
	return &Engine{pool: p}
}

// buildFilename derives the on-disk name from a generated identifier plus
// the original file's extension, or the bare identifier if there is none.
func buildFilename(fileID uuid.UUID, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	if ext == "" || ext == "." {
		return fileID.String()
	}
	return fileID.String() + strings.ToLower(ext)
}

// userDir returns the permanent directory for one owner on one root.
func userDir(rootPath, userID string) string {
	return filepath.Join(rootPath, usersDirName, userID)
}

// tempDir returns the temp directory for one owner on one root.
func tempDir(rootPath, userID string) string {
	return filepath.Join(rootPath, tempDirName, userID)
}
