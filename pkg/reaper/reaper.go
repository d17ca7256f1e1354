// Package reaper reclaims temp artifacts left behind by crashed or
// abandoned chunked uploads. It is purely advisory cleanup: it walks the
// temp subtrees by age alone and has no knowledge of live session records,
// so the configured max age must comfortably exceed the slowest expected
// upload.
package reaper

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"poolfs/pkg/log"
	"poolfs/pkg/models"
	"poolfs/pkg/pool"
	"poolfs/pkg/storage"
)

const (
	// DefaultInterval is how often the background sweep runs.
	DefaultInterval = 6 * time.Hour

	// DefaultMaxAge is the age threshold for on-demand sweeps when the
	// operator does not supply one.
	DefaultMaxAge = 24 * time.Hour

	tempDirName = "temp"
)

// Reaper periodically deletes abandoned temp files across all storage
// roots.
type Reaper struct {
	pool     *pool.Pool
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a reaper over the pool's roots. Non-positive durations fall
// back to the defaults.
func New(p *pool.Pool, interval, maxAge time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Reaper{
		pool:     p,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (r *Reaper) Start() {
	r.wg.Add(1)
	go r.loop()

	log.Info().
		Dur("interval", r.interval).
		Dur("max_age", r.maxAge).
		Msg("Temp file reaper started")
}

// Stop terminates the background loop and waits for it to exit.
func (r *Reaper) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	log.Info().Msg("Temp file reaper stopped")
}

func (r *Reaper) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result := r.Sweep(r.maxAge)
			log.Info().
				Int("files_removed", result.FilesRemoved).
				Uint64("bytes_freed", result.BytesFreed).
				Msg("Scheduled temp cleanup finished")
		case <-r.stopCh:
			return
		}
	}
}

// Sweep walks every root's temp subtree and deletes temp-extension files
// whose modification time is older than maxAge, removing directories left
// empty along the way. Individual failures are logged and skipped so one
// bad entry never stalls the rest of the sweep.
func (r *Reaper) Sweep(maxAge time.Duration) models.CleanupResult {
	cutoff := time.Now().Add(-maxAge)

	var result models.CleanupResult
	for _, root := range r.pool.Roots() {
		tempRoot := filepath.Join(root, tempDirName)
		if _, err := os.Stat(tempRoot); os.IsNotExist(err) {
			continue
		}
		files, bytes := sweepDir(tempRoot, cutoff)
		result.FilesRemoved += files
		result.BytesFreed += bytes
	}

	return result
}

// sweepDir recursively cleans one directory and reports what it removed.
func sweepDir(dir string, cutoff time.Time) (int, uint64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Failed to read temp directory")
		return 0, 0
	}

	var (
		removed int
		freed   uint64
	)

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			subRemoved, subFreed := sweepDir(path, cutoff)
			removed += subRemoved
			freed += subFreed

			// Drop the directory if the sweep emptied it.
			if remaining, readErr := os.ReadDir(path); readErr == nil && len(remaining) == 0 {
				if rmErr := os.Remove(path); rmErr != nil {
					log.Warn().Err(rmErr).Str("dir", path).Msg("Failed to remove empty temp directory")
				}
			}
			continue
		}

		if filepath.Ext(entry.Name()) != storage.TempExtension {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to stat temp file")
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		size := uint64(info.Size())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove stale temp file")
			continue
		}

		removed++
		freed += size
		log.Debug().Str("path", path).Uint64("size", size).Msg("Stale temp file removed")
	}

	return removed, freed
}

// TempInfo inventories temp artifacts across all roots: how many, how big,
// and the age of the oldest one.
func (r *Reaper) TempInfo() models.TempFilesInfo {
	var (
		info   models.TempFilesInfo
		oldest time.Time
	)

	for _, root := range r.pool.Roots() {
		tempRoot := filepath.Join(root, tempDirName)
		if _, err := os.Stat(tempRoot); os.IsNotExist(err) {
			continue
		}
		scanDir(tempRoot, &info, &oldest)
	}

	if !oldest.IsZero() {
		age := time.Since(oldest).Hours()
		info.OldestFileAgeHours = &age
	}

	return info
}

func scanDir(dir string, info *models.TempFilesInfo, oldest *time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Failed to read temp directory")
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			scanDir(path, info, oldest)
			continue
		}
		if filepath.Ext(entry.Name()) != storage.TempExtension {
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to stat temp file")
			continue
		}

		info.TotalFiles++
		info.TotalSize += uint64(fileInfo.Size())
		if oldest.IsZero() || fileInfo.ModTime().Before(*oldest) {
			*oldest = fileInfo.ModTime()
		}
	}
}
