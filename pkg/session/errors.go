package session

import "errors"

var (
	// ErrSessionNotFound is returned when the upload session does not exist.
	ErrSessionNotFound = errors.New("upload session not found")

	// ErrFileNotFound is returned when the requested file record does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrForbidden is returned when the caller does not own the session or file.
	ErrForbidden = errors.New("not the owner")

	// ErrAlreadyCompleted is returned when chunks arrive for a finalized session.
	ErrAlreadyCompleted = errors.New("upload already completed")

	// ErrUploadIncomplete is returned when complete is called before every
	// chunk has been applied.
	ErrUploadIncomplete = errors.New("upload is not complete")

	// ErrInvalidChunk is returned when the chunk number falls outside the
	// preallocated range of the session.
	ErrInvalidChunk = errors.New("chunk number out of range")

	// ErrInvalidRequest is returned when the declared sizes make no sense.
	ErrInvalidRequest = errors.New("invalid upload parameters")

	// ErrDatabase is returned when a database operation fails.
	ErrDatabase = errors.New("database error")
)
