package models

import "time"

// StoredFile is a permanently placed file record.
type StoredFile struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	RootPath         string    `json:"root_path"`
	Size             int64     `json:"size"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StoreResult is what the storage engine returns after placing bytes on
// disk. The caller persists it as a StoredFile record.
type StoreResult struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
	RootPath string `json:"root_path"`
	Size     int64  `json:"size"`
}
