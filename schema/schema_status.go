package schema

import "time"

// CacheStatus represents the status of the signal cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalSnapshots int              `json:"total_snapshots"`
	LatestPeriod   string           `json:"latest_period"`
	OldestPeriod   string           `json:"oldest_period"`
	LastStoredTime time.Time        `json:"last_stored_time"`
	TotalEntries   int              `json:"total_entries"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}
