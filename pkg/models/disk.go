package models

// DiskInfo is a point-in-time capacity snapshot of one storage root.
type DiskInfo struct {
	Path            string `json:"path"`
	TotalSpace      uint64 `json:"total_space"`
	UsedSpace       uint64 `json:"used_space"`
	AvailableSpace  uint64 `json:"available_space"`
	UsagePercentage uint8  `json:"usage_percentage"`
	IsAccessible    bool   `json:"is_accessible"`
}

// StorageInfo aggregates capacity across all configured storage roots.
type StorageInfo struct {
	TotalSpace      uint64     `json:"total_space"`
	UsedSpace       uint64     `json:"used_space"`
	AvailableSpace  uint64     `json:"available_space"`
	UsagePercentage uint8      `json:"usage_percentage"`
	DiskCount       int        `json:"disk_count"`
	Disks           []DiskInfo `json:"disks"`
}

// TempFilesInfo summarizes temp artifacts left on disk by in-flight or
// abandoned uploads.
type TempFilesInfo struct {
	TotalFiles         int      `json:"total_files"`
	TotalSize          uint64   `json:"total_size"`
	OldestFileAgeHours *float64 `json:"oldest_file_age_hours,omitempty"`
}

// CleanupResult reports what a reaper sweep removed.
type CleanupResult struct {
	FilesRemoved int    `json:"files_removed"`
	BytesFreed   uint64 `json:"bytes_freed"`
}
