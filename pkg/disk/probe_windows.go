//go:build windows

package disk

import "golang.org/x/sys/windows"

// statSpace uses the native free-space API so quotas are respected.
func statSpace(path string) (total, available uint64, err error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, 0, err
	}

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, 0, err
	}

	return totalBytes, freeBytesAvailable, nil
}
