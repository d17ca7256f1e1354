package storage

import "errors"

// ErrFileNotFound is returned when a stored file's path no longer exists on
// disk.
var ErrFileNotFound = errors.New("file not found on disk")
