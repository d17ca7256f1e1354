package disk

import (
	"os"
	"path/filepath"

	"poolfs/pkg/log"
	"poolfs/pkg/models"
)

const maxUsagePercentage = 100

// Probe measures total/available bytes for the filesystem backing root.
// The root is canonicalized first; if it does not exist yet the nearest
// existing ancestor is probed instead, so capacity can be estimated before
// the first write. Probe never mutates the filesystem.
func Probe(root string) (models.DiskInfo, error) {
	canonical, err := Normalize(root)
	if err != nil {
		return models.DiskInfo{}, ProbeError{Path: root, Err: err}
	}

	target, err := nearestExisting(canonical)
	if err != nil {
		return models.DiskInfo{}, ProbeError{Path: canonical, Err: err}
	}

	total, available, err := statSpace(target)
	if err != nil {
		log.Error().Err(err).Str("path", target).Msg("Disk space query failed")
		return models.DiskInfo{}, ProbeError{Path: target, Err: err}
	}

	// Guard against filesystem reporting anomalies.
	var used uint64
	if total >= available {
		used = total - available
	}

	var usage uint8
	if total > 0 {
		pct := float64(used) / float64(total) * 100.0
		if pct > maxUsagePercentage {
			pct = maxUsagePercentage
		}
		usage = uint8(pct)
	}

	info, statErr := os.Stat(canonical)
	accessible := statErr == nil && info.IsDir()

	return models.DiskInfo{
		Path:            canonical,
		TotalSpace:      total,
		UsedSpace:       used,
		AvailableSpace:  available,
		UsagePercentage: usage,
		IsAccessible:    accessible,
	}, nil
}

// nearestExisting returns path or its closest existing ancestor.
func nearestExisting(path string) (string, error) {
	current := path
	for {
		if _, err := os.Stat(current); err == nil {
			return current, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", os.ErrNotExist
		}
		current = parent
	}
}
