//go:build !windows

package disk

import "syscall"

// statSpace queries filesystem-table block counts and multiplies by the
// fragment size to get byte figures.
func statSpace(path string) (total, available uint64, err error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}

	blockSize := uint64(stat.Bsize) // #nosec G115 - syscall values are system dependent

	total = stat.Blocks * blockSize
	available = stat.Bavail * blockSize
	return total, available, nil
}
