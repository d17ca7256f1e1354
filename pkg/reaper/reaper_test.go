package reaper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"poolfs/pkg/pool"

	"github.com/stretchr/testify/suite"
)

// ReaperTestSuite tests temp file cleanup over real directories.
type ReaperTestSuite struct {
	suite.Suite
	tempDir string
	roots   []string
	reaper  *Reaper
}

func (s *ReaperTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "reaper-test-*")
	s.Require().NoError(err)

	s.roots = []string{
		filepath.Join(s.tempDir, "root1"),
		filepath.Join(s.tempDir, "root2"),
	}
	rootPool, err := pool.New(s.roots)
	s.Require().NoError(err)

	s.reaper = New(rootPool, DefaultInterval, DefaultMaxAge)
}

func (s *ReaperTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// writeTemp creates a temp artifact of the given size under a root's temp
// subtree and backdates its modification time.
func (s *ReaperTestSuite) writeTemp(root, user, name string, size int, age time.Duration) string {
	dir := filepath.Join(root, "temp", user)
	s.Require().NoError(os.MkdirAll(dir, 0750))

	path := filepath.Join(dir, name)
	s.Require().NoError(os.WriteFile(path, make([]byte, size), 0640))

	stamp := time.Now().Add(-age)
	s.Require().NoError(os.Chtimes(path, stamp, stamp))
	return path
}

func (s *ReaperTestSuite) TestSweepRemovesStaleFiles() {
	stale1 := s.writeTemp(s.roots[0], "alice", "a.tmp", 100, 48*time.Hour)
	stale2 := s.writeTemp(s.roots[1], "bob", "b.tmp", 200, 48*time.Hour)
	fresh := s.writeTemp(s.roots[0], "alice", "c.tmp", 300, time.Minute)

	result := s.reaper.Sweep(24 * time.Hour)

	s.Equal(2, result.FilesRemoved)
	s.Equal(uint64(300), result.BytesFreed)
	s.NoFileExists(stale1)
	s.NoFileExists(stale2)
	s.FileExists(fresh)
}

func (s *ReaperTestSuite) TestSweepWithZeroAgeRemovesEverything() {
	s.writeTemp(s.roots[0], "alice", "a.tmp", 128, time.Second)
	s.writeTemp(s.roots[0], "bob", "b.tmp", 128, time.Second)

	result := s.reaper.Sweep(0)

	s.Equal(2, result.FilesRemoved)
	s.Equal(uint64(256), result.BytesFreed)
}

func (s *ReaperTestSuite) TestSweepIgnoresForeignFiles() {
	foreign := s.writeTemp(s.roots[0], "alice", "notes.txt", 64, 48*time.Hour)

	result := s.reaper.Sweep(0)

	s.Equal(0, result.FilesRemoved)
	s.FileExists(foreign)
}

func (s *ReaperTestSuite) TestSweepRemovesEmptiedDirectories() {
	stale := s.writeTemp(s.roots[0], "alice", "a.tmp", 32, 48*time.Hour)
	userDir := filepath.Dir(stale)

	s.reaper.Sweep(0)

	s.NoDirExists(userDir)
	// The temp root itself stays.
	s.DirExists(filepath.Join(s.roots[0], "temp"))
}

func (s *ReaperTestSuite) TestSweepWithoutTempDirs() {
	result := s.reaper.Sweep(0)
	s.Equal(0, result.FilesRemoved)
	s.Equal(uint64(0), result.BytesFreed)
}

func (s *ReaperTestSuite) TestTempInfo() {
	s.writeTemp(s.roots[0], "alice", "a.tmp", 100, 10*time.Hour)
	s.writeTemp(s.roots[1], "bob", "b.tmp", 200, 2*time.Hour)
	s.writeTemp(s.roots[0], "alice", "ignored.dat", 999, 100*time.Hour)

	info := s.reaper.TempInfo()

	s.Equal(2, info.TotalFiles)
	s.Equal(uint64(300), info.TotalSize)
	s.Require().NotNil(info.OldestFileAgeHours)
	s.InDelta(10.0, *info.OldestFileAgeHours, 0.1)
}

func (s *ReaperTestSuite) TestTempInfoEmpty() {
	info := s.reaper.TempInfo()
	s.Equal(0, info.TotalFiles)
	s.Equal(uint64(0), info.TotalSize)
	s.Nil(info.OldestFileAgeHours)
}

func (s *ReaperTestSuite) TestStartStop() {
	rootPool, err := pool.New([]string{filepath.Join(s.tempDir, "loop-root")})
	s.Require().NoError(err)

	r := New(rootPool, 10*time.Millisecond, time.Hour)
	r.Start()
	time.Sleep(50 * time.Millisecond)
	r.Stop()
}

func (s *ReaperTestSuite) TestNewAppliesDefaults() {
	rootPool, err := pool.New([]string{filepath.Join(s.tempDir, "defaults-root")})
	s.Require().NoError(err)

	r := New(rootPool, 0, -time.Hour)
	s.Equal(DefaultInterval, r.interval)
	s.Equal(DefaultMaxAge, r.maxAge)
}

func TestReaperSuite(t *testing.T) {
	suite.Run(t, new(ReaperTestSuite))
}
