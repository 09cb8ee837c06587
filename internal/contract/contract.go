// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"errors"

	"github.com/aipowerranking/toolrank/schema"
)

// ErrSnapshotNotFound is returned by a SnapshotStore when no snapshot matches.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// CacheManager defines the interface for managing the signal cache and the snapshot store.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetSignalCache() CacheStore
	GetSnapshotStore() SnapshotStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore persists ranking snapshots keyed by period.
type SnapshotStore interface {
	// SaveSnapshot stores a snapshot, replacing any snapshot for the same period.
	SaveSnapshot(snapshot schema.RankingSnapshot) error

	// GetSnapshot returns the snapshot for an exact period or ErrSnapshotNotFound.
	GetSnapshot(period string) (*schema.RankingSnapshot, error)

	// LatestBefore returns the most recent snapshot with a period strictly before
	// the given one, or ErrSnapshotNotFound.
	LatestBefore(period string) (*schema.RankingSnapshot, error)

	// ListSnapshots returns summaries of all stored snapshots, newest period first.
	ListSnapshots() ([]schema.SnapshotSummary, error)

	// DeleteSnapshot removes the snapshot for a period. Missing periods are not an error.
	DeleteSnapshot(period string) error

	// GetStatus returns status information about the snapshot store
	GetStatus() (schema.SnapshotStatus, error)

	// Close closes the underlying connection
	Close() error
}
