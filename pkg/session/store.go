package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"poolfs/pkg/models"

	_ "modernc.org/sqlite"
)

// Store persists upload sessions and permanent file records in SQLite. It
// is the durable key-value-by-identifier layer the upload manager builds
// on; there is deliberately no transactional coupling to filesystem
// operations.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (or creates) the session database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabase, err)
	}

	ctx := context.Background()

	// WAL mode for better concurrency between chunk acknowledgments.
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabase, err)
	}

	store := &Store{db: database}
	if err := store.initialize(); err != nil {
		_ = database.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(context.Background(), Schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabase, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new upload session record.
func (s *Store) CreateSession(sess *models.UploadSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO upload_sessions
		 (id, user_id, filename, total_size, chunk_size, total_chunks, uploaded_chunks,
		  temp_path, root_path, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Filename, sess.TotalSize, sess.ChunkSize,
		sess.TotalChunks, sess.UploadedChunks, sess.TempPath, sess.RootPath,
		sess.IsCompleted, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return nil
}

// GetSession retrieves an upload session by identifier.
func (s *Store) GetSession(id string) (*models.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := &models.UploadSession{}
	err := s.db.QueryRowContext(context.Background(),
		`SELECT id, user_id, filename, total_size, chunk_size, total_chunks,
		        uploaded_chunks, temp_path, root_path, is_completed, created_at, updated_at
		 FROM upload_sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.UserID, &sess.Filename, &sess.TotalSize, &sess.ChunkSize,
		&sess.TotalChunks, &sess.UploadedChunks, &sess.TempPath, &sess.RootPath,
		&sess.IsCompleted, &sess.CreatedAt, &sess.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return sess, nil
}

// IncrementProgress bumps the applied-chunk counter by one and returns the
// new count. The single UPDATE keeps concurrent chunk acknowledgments from
// losing increments.
func (s *Store) IncrementProgress(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()

	result, err := s.db.ExecContext(ctx,
		`UPDATE upload_sessions
		 SET uploaded_chunks = uploaded_chunks + 1, updated_at = ?
		 WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	if affected == 0 {
		return 0, ErrSessionNotFound
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT uploaded_chunks FROM upload_sessions WHERE id = ?`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return count, nil
}

// MarkCompleted flags a session as finalized.
func (s *Store) MarkCompleted(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(context.Background(),
		`UPDATE upload_sessions SET is_completed = TRUE, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes an upload session record.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(context.Background(),
		`DELETE FROM upload_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return nil
}

// CreateFile inserts a permanent file record.
func (s *Store) CreateFile(file *models.StoredFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO files
		 (id, user_id, filename, original_filename, file_path, root_path, size, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		file.ID, file.UserID, file.Filename, file.OriginalFilename,
		file.FilePath, file.RootPath, file.Size, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return nil
}

// GetFile retrieves a file record by identifier.
func (s *Store) GetFile(id string) (*models.StoredFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file := &models.StoredFile{}
	err := s.db.QueryRowContext(context.Background(),
		`SELECT id, user_id, filename, original_filename, file_path, root_path, size, created_at, updated_at
		 FROM files WHERE id = ?`,
		id,
	).Scan(&file.ID, &file.UserID, &file.Filename, &file.OriginalFilename,
		&file.FilePath, &file.RootPath, &file.Size, &file.CreatedAt, &file.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return file, nil
}

// ListFiles returns all file records owned by a user, newest first.
func (s *Store) ListFiles(userID string) ([]models.StoredFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, user_id, filename, original_filename, file_path, root_path, size, created_at, updated_at
		 FROM files WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var files []models.StoredFile
	for rows.Next() {
		var file models.StoredFile
		if scanErr := rows.Scan(&file.ID, &file.UserID, &file.Filename, &file.OriginalFilename,
			&file.FilePath, &file.RootPath, &file.Size, &file.CreatedAt, &file.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, scanErr)
		}
		files = append(files, file)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return files, nil
}

// DeleteFile removes a file record.
func (s *Store) DeleteFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(context.Background(), `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	if affected == 0 {
		return ErrFileNotFound
	}
	return nil
}
