package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"poolfs/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite tests the SQLite persistence layer.
type StoreTestSuite struct {
	suite.Suite
	tempDir string
	store   *Store
}

func (s *StoreTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "store-test-*")
	s.Require().NoError(err)

	s.store, err = NewStore(filepath.Join(s.tempDir, "test.db"))
	s.Require().NoError(err)
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *StoreTestSuite) newSession() *models.UploadSession {
	now := time.Now()
	return &models.UploadSession{
		ID:          uuid.New().String(),
		UserID:      "alice",
		Filename:    "video.mp4",
		TotalSize:   10_000_000,
		ChunkSize:   1_048_576,
		TotalChunks: 10,
		TempPath:    filepath.Join(s.tempDir, "upload.tmp"),
		RootPath:    s.tempDir,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *StoreTestSuite) newFile() *models.StoredFile {
	now := time.Now()
	return &models.StoredFile{
		ID:               uuid.New().String(),
		UserID:           "alice",
		Filename:         uuid.New().String() + ".mp4",
		OriginalFilename: "video.mp4",
		FilePath:         filepath.Join(s.tempDir, "users", "alice", "file.mp4"),
		RootPath:         s.tempDir,
		Size:             10_000_000,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *StoreTestSuite) TestSessionRoundTrip() {
	sess := s.newSession()
	s.Require().NoError(s.store.CreateSession(sess))

	got, err := s.store.GetSession(sess.ID)
	s.Require().NoError(err)

	s.Equal(sess.ID, got.ID)
	s.Equal(sess.UserID, got.UserID)
	s.Equal(sess.Filename, got.Filename)
	s.Equal(sess.TotalSize, got.TotalSize)
	s.Equal(sess.ChunkSize, got.ChunkSize)
	s.Equal(sess.TotalChunks, got.TotalChunks)
	s.Equal(0, got.UploadedChunks)
	s.Equal(sess.TempPath, got.TempPath)
	s.Equal(sess.RootPath, got.RootPath)
	s.False(got.IsCompleted)
}

func (s *StoreTestSuite) TestGetSessionNotFound() {
	_, err := s.store.GetSession("no-such-session")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *StoreTestSuite) TestIncrementProgress() {
	sess := s.newSession()
	s.Require().NoError(s.store.CreateSession(sess))

	for want := 1; want <= 3; want++ {
		count, err := s.store.IncrementProgress(sess.ID)
		s.Require().NoError(err)
		s.Equal(want, count)
	}

	got, err := s.store.GetSession(sess.ID)
	s.Require().NoError(err)
	s.Equal(3, got.UploadedChunks)
}

func (s *StoreTestSuite) TestIncrementProgressNotFound() {
	_, err := s.store.IncrementProgress("no-such-session")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *StoreTestSuite) TestMarkCompleted() {
	sess := s.newSession()
	s.Require().NoError(s.store.CreateSession(sess))

	s.Require().NoError(s.store.MarkCompleted(sess.ID))

	got, err := s.store.GetSession(sess.ID)
	s.Require().NoError(err)
	s.True(got.IsCompleted)
}

func (s *StoreTestSuite) TestMarkCompletedNotFound() {
	s.ErrorIs(s.store.MarkCompleted("no-such-session"), ErrSessionNotFound)
}

func (s *StoreTestSuite) TestDeleteSession() {
	sess := s.newSession()
	s.Require().NoError(s.store.CreateSession(sess))

	s.Require().NoError(s.store.DeleteSession(sess.ID))

	_, err := s.store.GetSession(sess.ID)
	s.ErrorIs(err, ErrSessionNotFound)

	// Deleting again is harmless.
	s.NoError(s.store.DeleteSession(sess.ID))
}

func (s *StoreTestSuite) TestFileRoundTrip() {
	file := s.newFile()
	s.Require().NoError(s.store.CreateFile(file))

	got, err := s.store.GetFile(file.ID)
	s.Require().NoError(err)

	s.Equal(file.ID, got.ID)
	s.Equal(file.UserID, got.UserID)
	s.Equal(file.Filename, got.Filename)
	s.Equal(file.OriginalFilename, got.OriginalFilename)
	s.Equal(file.FilePath, got.FilePath)
	s.Equal(file.Size, got.Size)
}

func (s *StoreTestSuite) TestGetFileNotFound() {
	_, err := s.store.GetFile("no-such-file")
	s.ErrorIs(err, ErrFileNotFound)
}

func (s *StoreTestSuite) TestListFilesNewestFirst() {
	first := s.newFile()
	first.CreatedAt = time.Now().Add(-time.Hour)
	s.Require().NoError(s.store.CreateFile(first))

	second := s.newFile()
	s.Require().NoError(s.store.CreateFile(second))

	other := s.newFile()
	other.UserID = "bob"
	s.Require().NoError(s.store.CreateFile(other))

	files, err := s.store.ListFiles("alice")
	s.Require().NoError(err)
	s.Require().Len(files, 2)
	s.Equal(second.ID, files[0].ID)
	s.Equal(first.ID, files[1].ID)
}

func (s *StoreTestSuite) TestListFilesEmpty() {
	files, err := s.store.ListFiles("nobody")
	s.NoError(err)
	s.Empty(files)
}

func (s *StoreTestSuite) TestDeleteFile() {
	file := s.newFile()
	s.Require().NoError(s.store.CreateFile(file))

	s.Require().NoError(s.store.DeleteFile(file.ID))

	_, err := s.store.GetFile(file.ID)
	s.ErrorIs(err, ErrFileNotFound)

	s.ErrorIs(s.store.DeleteFile(file.ID), ErrFileNotFound)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
