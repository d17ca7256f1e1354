package models

import "time"

// UploadSession is a durable record of one chunked upload in progress.
type UploadSession struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Filename       string    `json:"filename"`
	TotalSize      int64     `json:"total_size"`
	ChunkSize      int64     `json:"chunk_size"`
	TotalChunks    int       `json:"total_chunks"`
	UploadedChunks int       `json:"uploaded_chunks"`
	TempPath       string    `json:"temp_path"`
	RootPath       string    `json:"root_path"`
	IsCompleted    bool      `json:"is_completed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InitiateUploadRequest starts a chunked upload.
type InitiateUploadRequest struct {
	Filename  string `json:"filename"`
	TotalSize int64  `json:"total_size"`
	ChunkSize int64  `json:"chunk_size"`
}

// InitiateUploadResponse returns the session handle the client uses for
// subsequent chunk requests.
type InitiateUploadResponse struct {
	UploadID    string `json:"upload_id"`
	ChunkSize   int64  `json:"chunk_size"`
	TotalChunks int    `json:"total_chunks"`
}

// ChunkResponse acknowledges one applied chunk. UploadCompleted is advisory:
// the upload is final only once the complete call succeeds.
type ChunkResponse struct {
	ChunkNumber     int  `json:"chunk_number"`
	Uploaded        bool `json:"uploaded"`
	UploadCompleted bool `json:"upload_completed"`
}
