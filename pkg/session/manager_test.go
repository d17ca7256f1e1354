package session

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"poolfs/pkg/pool"
	"poolfs/pkg/storage"

	"github.com/stretchr/testify/suite"
)

// ManagerTestSuite tests the chunked upload lifecycle end to end against a
// real pool, engine and database.
type ManagerTestSuite struct {
	suite.Suite
	tempDir string
	store   *Store
	manager *Manager
}

func (s *ManagerTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "manager-test-*")
	s.Require().NoError(err)

	rootPool, err := pool.New([]string{filepath.Join(s.tempDir, "root1")})
	s.Require().NoError(err)

	s.store, err = NewStore(filepath.Join(s.tempDir, "test.db"))
	s.Require().NoError(err)

	s.manager = NewManager(s.store, storage.New(rootPool))
}

func (s *ManagerTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *ManagerTestSuite) TestInitiateComputesChunkCount() {
	sess, err := s.manager.Initiate("alice", "video.mp4", 10_000_000, 1_048_576)
	s.Require().NoError(err)

	s.Equal(10, sess.TotalChunks)
	s.Equal(0, sess.UploadedChunks)
	s.FileExists(sess.TempPath)

	info, err := os.Stat(sess.TempPath)
	s.Require().NoError(err)
	s.Equal(int64(10_000_000), info.Size())
}

func (s *ManagerTestSuite) TestInitiateExactMultiple() {
	sess, err := s.manager.Initiate("alice", "a.bin", 4096, 1024)
	s.Require().NoError(err)
	s.Equal(4, sess.TotalChunks)
}

func (s *ManagerTestSuite) TestInitiateRejectsInvalidInput() {
	cases := []struct {
		user      string
		filename  string
		totalSize int64
		chunkSize int64
	}{
		{"alice", "a.bin", 0, 1024},
		{"alice", "a.bin", -1, 1024},
		{"alice", "a.bin", 1024, 0},
		{"alice", "", 1024, 1024},
		{"", "a.bin", 1024, 1024},
	}
	for _, tc := range cases {
		_, err := s.manager.Initiate(tc.user, tc.filename, tc.totalSize, tc.chunkSize)
		s.ErrorIs(err, ErrInvalidRequest)
	}
}

func (s *ManagerTestSuite) TestOutOfOrderLifecycle() {
	const chunkSize = 1024

	chunks := [][]byte{
		bytes.Repeat([]byte{'1'}, chunkSize),
		bytes.Repeat([]byte{'2'}, chunkSize),
		bytes.Repeat([]byte{'3'}, chunkSize),
	}
	want := bytes.Join(chunks, nil)

	sess, err := s.manager.Initiate("alice", "data.bin", int64(len(want)), chunkSize)
	s.Require().NoError(err)

	for i, n := range []int{3, 1, 2} {
		done, err := s.manager.ApplyChunk("alice", sess.ID, n, chunks[n-1])
		s.Require().NoError(err)
		s.Equal(i == 2, done)
	}

	file, err := s.manager.Complete("alice", sess.ID)
	s.Require().NoError(err)
	s.Equal("data.bin", file.OriginalFilename)
	s.Equal(int64(len(want)), file.Size)

	got, err := os.ReadFile(file.FilePath)
	s.Require().NoError(err)
	s.Equal(want, got)

	// The session record is gone and the temp file promoted away.
	_, err = s.manager.Status("alice", sess.ID)
	s.ErrorIs(err, ErrSessionNotFound)
	s.NoFileExists(sess.TempPath)
}

func (s *ManagerTestSuite) TestRepeatChunkStillCounts() {
	sess, err := s.manager.Initiate("alice", "data.bin", 2048, 1024)
	s.Require().NoError(err)

	chunk := bytes.Repeat([]byte{'r'}, 1024)

	done, err := s.manager.ApplyChunk("alice", sess.ID, 1, chunk)
	s.Require().NoError(err)
	s.False(done)

	// A repeat of chunk 1 overwrites the same range but still advances the
	// counter, so the advisory flag can trip before chunk 2 ever arrives.
	done, err = s.manager.ApplyChunk("alice", sess.ID, 1, chunk)
	s.Require().NoError(err)
	s.True(done)

	status, err := s.manager.Status("alice", sess.ID)
	s.Require().NoError(err)
	s.Equal(2, status.UploadedChunks)
}

func (s *ManagerTestSuite) TestCompleteRequiresAllChunks() {
	sess, err := s.manager.Initiate("alice", "data.bin", 2048, 1024)
	s.Require().NoError(err)

	_, err = s.manager.ApplyChunk("alice", sess.ID, 1, bytes.Repeat([]byte{'x'}, 1024))
	s.Require().NoError(err)

	_, err = s.manager.Complete("alice", sess.ID)
	s.ErrorIs(err, ErrUploadIncomplete)

	// Nothing moved: the session survives and the temp file is untouched.
	status, err := s.manager.Status("alice", sess.ID)
	s.Require().NoError(err)
	s.Equal(1, status.UploadedChunks)
	s.FileExists(sess.TempPath)
}

func (s *ManagerTestSuite) TestApplyChunkBounds() {
	sess, err := s.manager.Initiate("alice", "data.bin", 2048, 1024)
	s.Require().NoError(err)

	_, err = s.manager.ApplyChunk("alice", sess.ID, 0, []byte("x"))
	s.ErrorIs(err, ErrInvalidChunk)

	_, err = s.manager.ApplyChunk("alice", sess.ID, 3, []byte("x"))
	s.ErrorIs(err, ErrInvalidChunk)
}

func (s *ManagerTestSuite) TestOwnershipEnforced() {
	sess, err := s.manager.Initiate("alice", "data.bin", 1024, 1024)
	s.Require().NoError(err)

	_, err = s.manager.ApplyChunk("mallory", sess.ID, 1, []byte("x"))
	s.ErrorIs(err, ErrForbidden)

	_, err = s.manager.Complete("mallory", sess.ID)
	s.ErrorIs(err, ErrForbidden)

	s.ErrorIs(s.manager.Cancel("mallory", sess.ID), ErrForbidden)

	_, err = s.manager.Status("mallory", sess.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *ManagerTestSuite) TestCancelRemovesEverything() {
	sess, err := s.manager.Initiate("alice", "data.bin", 2048, 1024)
	s.Require().NoError(err)

	_, err = s.manager.ApplyChunk("alice", sess.ID, 1, bytes.Repeat([]byte{'x'}, 1024))
	s.Require().NoError(err)

	s.Require().NoError(s.manager.Cancel("alice", sess.ID))

	s.NoFileExists(sess.TempPath)
	_, err = s.manager.Status("alice", sess.ID)
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *ManagerTestSuite) TestUnknownSession() {
	_, err := s.manager.ApplyChunk("alice", "no-such-id", 1, []byte("x"))
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.manager.Complete("alice", "no-such-id")
	s.ErrorIs(err, ErrSessionNotFound)

	s.ErrorIs(s.manager.Cancel("alice", "no-such-id"), ErrSessionNotFound)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}
