// Package pool owns the set of configured storage roots and decides which
// root receives new data, using live capacity probes.
package pool

import (
	"fmt"
	"os"

	"poolfs/pkg/disk"
	"poolfs/pkg/log"
	"poolfs/pkg/models"
)

const (
	dirPerm = 0750

	// SafetyMargin is reserved headroom beyond the requested size. It
	// bounds the race with other writers filling the same volume between
	// the probe and the write.
	SafetyMargin = 100 * 1024 * 1024
)

// ProbeFunc measures capacity for one storage root.
type ProbeFunc func(root string) (models.DiskInfo, error)

// Pool is an immutable, ordered set of storage roots.
type Pool struct {
	roots []string
	probe ProbeFunc
}

// New canonicalizes each configured path, creates missing root directories
// and returns the pool. Roots are never removed for the process lifetime.
func New(paths []string) (*Pool, error) {
	return NewWithProbe(paths, disk.Probe)
}

// NewWithProbe is New with a caller-supplied capacity probe.
func NewWithProbe(paths []string, probe ProbeFunc) (*Pool, error) {
	if len(paths) == 0 {
		return nil, ErrNoRoots
	}

	roots := make([]string, 0, len(paths))
	for _, path := range paths {
		canonical, err := disk.Normalize(path)
		if err != nil {
			return nil, fmt.Errorf("invalid storage root %s: %w", path, err)
		}
		if err := os.MkdirAll(canonical, dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create storage root %s: %w", canonical, err)
		}
		roots = append(roots, canonical)
	}

	return &Pool{roots: roots, probe: probe}, nil
}

// Roots returns the canonical root paths in configuration order.
func (p *Pool) Roots() []string {
	out := make([]string, len(p.roots))
	copy(out, p.roots)
	return out
}

// ChooseRoot picks the storage root that will receive requiredBytes of new
// data: among accessible roots whose available space exceeds
// requiredBytes+SafetyMargin, the one with the greatest available space
// wins. Roots that fail to probe are skipped for this call only. Returns
// ErrCapacityExhausted when nothing qualifies.
func (p *Pool) ChooseRoot(requiredBytes int64) (string, error) {
	var (
		bestRoot      string
		bestAvailable uint64
		found         bool
	)

	needed := uint64(requiredBytes) + SafetyMargin

	for _, root := range p.roots {
		info, err := p.probe(root)
		if err != nil {
			log.Warn().Err(err).Str("root", root).Msg("Skipping unprobeable storage root")
			continue
		}
		if !info.IsAccessible || info.AvailableSpace <= needed {
			continue
		}
		if !found || info.AvailableSpace > bestAvailable {
			bestRoot = root
			bestAvailable = info.AvailableSpace
			found = true
		}
	}

	if !found {
		return "", ErrCapacityExhausted
	}

	log.Debug().
		Str("root", bestRoot).
		Uint64("available", bestAvailable).
		Int64("required", requiredBytes).
		Msg("Storage root selected")

	return bestRoot, nil
}

// Snapshots probes every root and returns per-root capacity data.
func (p *Pool) Snapshots() ([]models.DiskInfo, error) {
	infos := make([]models.DiskInfo, 0, len(p.roots))
	for _, root := range p.roots {
		info, err := p.probe(root)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// StorageInfo aggregates capacity across all roots.
func (p *Pool) StorageInfo() (*models.StorageInfo, error) {
	infos, err := p.Snapshots()
	if err != nil {
		return nil, err
	}

	agg := &models.StorageInfo{
		DiskCount: len(infos),
		Disks:     infos,
	}
	for _, info := range infos {
		agg.TotalSpace += info.TotalSpace
		agg.UsedSpace += info.UsedSpace
		agg.AvailableSpace += info.AvailableSpace
	}
	if agg.TotalSpace > 0 {
		agg.UsagePercentage = uint8(float64(agg.UsedSpace) / float64(agg.TotalSpace) * 100.0)
	}

	return agg, nil
}
