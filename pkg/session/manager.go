// Package session owns the lifecycle of chunked uploads: initiation,
// chunk application, completion, cancellation and status, backed by a
// SQLite record store and the storage engine.
package session

import (
	"sync"
	"time"

	"poolfs/pkg/log"
	"poolfs/pkg/models"
	"poolfs/pkg/storage"

	"github.com/google/uuid"
)

// Manager drives upload sessions through
// Initiated -> Receiving -> Completed, or to cancellation.
type Manager struct {
	store  *Store
	engine *storage.Engine

	// Per-session locks serialize the write+increment pair so two chunks
	// for the same session cannot lose counter updates.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewManager creates an upload session manager.
func NewManager(store *Store, engine *storage.Engine) *Manager {
	return &Manager{
		store:  store,
		engine: engine,
		locks:  make(map[string]*sync.Mutex),
	}
}

// sessionLock returns or creates the mutex for one session.
func (m *Manager) sessionLock(sessionID string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	if lock, exists := m.locks[sessionID]; exists {
		return lock
	}
	lock := &sync.Mutex{}
	m.locks[sessionID] = lock
	return lock
}

// dropSessionLock removes a terminal session's mutex so the map does not
// grow without bound.
func (m *Manager) dropSessionLock(sessionID string) {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	delete(m.locks, sessionID)
}

// totalChunks computes ceil(totalSize / chunkSize).
func totalChunks(totalSize, chunkSize int64) int {
	return int((totalSize + chunkSize - 1) / chunkSize)
}

// Initiate starts a chunked upload: picks a root sized to totalSize,
// preallocates the backing temp file and persists the session record with
// zero applied chunks.
func (m *Manager) Initiate(userID, filename string, totalSize, chunkSize int64) (*models.UploadSession, error) {
	if totalSize <= 0 || chunkSize <= 0 || filename == "" || userID == "" {
		return nil, ErrInvalidRequest
	}

	uploadID := uuid.New().String()

	tempPath, rootPath, err := m.engine.CreateTemp(userID, uploadID, totalSize)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &models.UploadSession{
		ID:             uploadID,
		UserID:         userID,
		Filename:       filename,
		TotalSize:      totalSize,
		ChunkSize:      chunkSize,
		TotalChunks:    totalChunks(totalSize, chunkSize),
		UploadedChunks: 0,
		TempPath:       tempPath,
		RootPath:       rootPath,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.store.CreateSession(sess); err != nil {
		// The record never existed, so the preallocation is orphaned.
		if cleanupErr := m.engine.RemoveTemp(tempPath); cleanupErr != nil {
			log.Warn().Err(cleanupErr).Str("path", tempPath).Msg("Failed to remove temp file after session insert failure")
		}
		return nil, err
	}

	log.Info().
		Str("upload_id", uploadID).
		Str("user_id", userID).
		Int64("total_size", totalSize).
		Int("total_chunks", sess.TotalChunks).
		Str("root", rootPath).
		Msg("Chunked upload initiated")

	return sess, nil
}

// ApplyChunk writes one chunk at offset (chunkNumber-1)*chunkSize and bumps
// the applied-chunk counter. Out-of-order and repeated delivery are
// accepted; a repeat overwrites the same byte range and still increments
// the counter. The returned flag is advisory: it reports whether every
// chunk has been counted, but the upload is final only once Complete
// succeeds.
func (m *Manager) ApplyChunk(userID, sessionID string, chunkNumber int, data []byte) (bool, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return false, err
	}
	if sess.UserID != userID {
		return false, ErrForbidden
	}
	if sess.IsCompleted {
		return false, ErrAlreadyCompleted
	}
	if chunkNumber < 1 || chunkNumber > sess.TotalChunks {
		return false, ErrInvalidChunk
	}

	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	offset := int64(chunkNumber-1) * sess.ChunkSize
	if err := m.engine.WriteChunk(sess.TempPath, offset, data); err != nil {
		return false, err
	}

	count, err := m.store.IncrementProgress(sessionID)
	if err != nil {
		return false, err
	}

	return count >= sess.TotalChunks, nil
}

// Complete finalizes a fully received upload: the temp file is promoted to
// the permanent namespace, the file record is persisted and the session
// record is deleted. Finality is represented by the StoredFile, not the
// session.
func (m *Manager) Complete(userID, sessionID string) (*models.StoredFile, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}
	if sess.UploadedChunks < sess.TotalChunks {
		return nil, ErrUploadIncomplete
	}

	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	result, err := m.engine.Finalize(sess.TempPath, userID, sess.Filename, sess.RootPath)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	file := &models.StoredFile{
		ID:               result.FileID,
		UserID:           userID,
		Filename:         result.Filename,
		OriginalFilename: sess.Filename,
		FilePath:         result.FilePath,
		RootPath:         result.RootPath,
		Size:             result.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := m.store.CreateFile(file); err != nil {
		return nil, err
	}

	if err := m.store.MarkCompleted(sessionID); err != nil {
		return nil, err
	}
	if err := m.store.DeleteSession(sessionID); err != nil {
		return nil, err
	}
	m.dropSessionLock(sessionID)

	log.Info().
		Str("upload_id", sessionID).
		Str("file_id", file.ID).
		Int64("size", file.Size).
		Msg("Chunked upload completed")

	return file, nil
}

// Cancel aborts a session at any point before completion: the backing temp
// file is deleted (no-op if already gone) and the record removed,
// regardless of partial progress.
func (m *Manager) Cancel(userID, sessionID string) error {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != userID {
		return ErrForbidden
	}

	if err := m.engine.RemoveTemp(sess.TempPath); err != nil {
		return err
	}
	if err := m.store.DeleteSession(sessionID); err != nil {
		return err
	}
	m.dropSessionLock(sessionID)

	log.Info().
		Str("upload_id", sessionID).
		Int("uploaded_chunks", sess.UploadedChunks).
		Msg("Chunked upload cancelled")

	return nil
}

// Status returns a read-only projection of the session record.
func (m *Manager) Status(userID, sessionID string) (*models.UploadSession, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}
	return sess, nil
}
