package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storedAt = time.Date(2025, time.July, 2, 9, 30, 0, 0, time.UTC)

func newSQLiteSnapshots(t *testing.T) *SnapshotStoreImpl {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSnapshotStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl := store.(*SnapshotStoreImpl)
	impl.now = func() time.Time { return storedAt }
	return impl
}

func testSnapshot(period string, ids ...string) schema.RankingSnapshot {
	generated, _ := time.Parse("2006-01", period)
	entries := make([]schema.RankingEntry, len(ids))
	for i, id := range ids {
		entries[i] = schema.RankingEntry{
			Position: i + 1,
			ToolID:   id,
			ToolName: "Tool " + id,
			Score:    90 - float64(i)*5.25,
			FactorScores: schema.FactorScores{
				schema.AgenticCapability: 8.5 - float64(i),
				schema.Innovation:        6.25,
			},
		}
	}
	return schema.RankingSnapshot{
		ID:               "snap-" + period,
		Period:           period,
		AlgorithmVersion: "v7.3",
		GeneratedAt:      generated.UTC(),
		Entries:          entries,
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := newSQLiteSnapshots(t)
	want := testSnapshot("2025-06", "cursor", "claude-code", "copilot")

	require.NoError(t, store.SaveSnapshot(want))

	got, err := store.GetSnapshot("2025-06")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.AlgorithmVersion, got.AlgorithmVersion)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, want.Entries, got.Entries)
}

func TestSnapshotStoreReplacesPeriod(t *testing.T) {
	store := newSQLiteSnapshots(t)

	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-06", "a", "b", "c")))
	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-06", "d")))

	got, err := store.GetSnapshot("2025-06")
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "d", got.Entries[0].ToolID)

	list, err := store.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].EntryCount)
}

func TestSnapshotStoreEmptySnapshot(t *testing.T) {
	store := newSQLiteSnapshots(t)
	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-06")))

	got, err := store.GetSnapshot("2025-06")
	require.NoError(t, err)
	assert.NotNil(t, got.Entries)
	assert.Empty(t, got.Entries)
}

func TestSnapshotStoreRejectsBadPeriod(t *testing.T) {
	store := newSQLiteSnapshots(t)
	snap := testSnapshot("2025-06", "a")
	snap.Period = "June"
	assert.Error(t, store.SaveSnapshot(snap))
}

func TestSnapshotStoreLatestBefore(t *testing.T) {
	store := newSQLiteSnapshots(t)
	for _, p := range []string{"2024-12", "2025-03", "2025-05"} {
		require.NoError(t, store.SaveSnapshot(testSnapshot(p, "a")))
	}

	tests := []struct {
		period string
		want   string
	}{
		{"2025-06", "2025-05"},
		{"2025-05", "2025-03"},
		{"2025-04", "2025-03"},
		{"2025-01", "2024-12"},
		{"2024-12", ""},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := store.LatestBefore(tt.period)
			if tt.want == "" {
				assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Period)
		})
	}
}

func TestSnapshotStoreLatestBeforeMixedPeriods(t *testing.T) {
	store := newSQLiteSnapshots(t)
	for _, p := range []string{"2025-05", "2025-05-20", "2025-06", "2025-06-10"} {
		snap := testSnapshot("2025-06", "a")
		snap.Period = p
		snap.ID = "snap-" + p
		require.NoError(t, store.SaveSnapshot(snap))
	}

	tests := []struct {
		period string
		want   string
	}{
		{"2025-06-15", "2025-06-10"},
		{"2025-06-10", "2025-06"},
		{"2025-06-01", "2025-06"},
		{"2025-06", "2025-05-20"},
		{"2025-05-20", "2025-05"},
		{"2025-07", "2025-06-10"},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := store.LatestBefore(tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Period)
		})
	}
}

func TestSnapshotStoreGetMissing(t *testing.T) {
	store := newSQLiteSnapshots(t)
	_, err := store.GetSnapshot("2025-01")
	assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)
}

func TestSnapshotStoreListAndDelete(t *testing.T) {
	store := newSQLiteSnapshots(t)
	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-04", "a", "b")))
	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-05", "a")))

	list, err := store.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-05", list[0].Period, "newest period first")
	assert.Equal(t, "2025-04", list[1].Period)
	assert.Equal(t, 2, list[1].EntryCount)
	assert.True(t, storedAt.Equal(list[0].StoredAt))

	require.NoError(t, store.DeleteSnapshot("2025-05"))
	require.NoError(t, store.DeleteSnapshot("2030-01"), "deleting a missing period is fine")

	list, err = store.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-04", list[0].Period)
}

func TestSnapshotStoreStatus(t *testing.T) {
	store := newSQLiteSnapshots(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.TotalSnapshots)
	assert.Empty(t, status.LatestPeriod)

	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-04", "a", "b")))
	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-06", "a", "b", "c")))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalSnapshots)
	assert.Equal(t, "2025-04", status.OldestPeriod)
	assert.Equal(t, "2025-06", status.LatestPeriod)
	assert.Equal(t, 5, status.TotalEntries)
	assert.True(t, storedAt.Equal(status.LastStoredTime))
	assert.Equal(t, int64(2), status.TableSizes[snapshotsTable])
	assert.Equal(t, int64(5), status.TableSizes[snapshotEntriesTable])
}

func TestNoneSnapshotStore(t *testing.T) {
	store, err := NewSnapshotStore(schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.SaveSnapshot(testSnapshot("2025-06", "a")))
	_, err = store.GetSnapshot("2025-06")
	assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)
	_, err = store.LatestBefore("2025-07")
	assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)

	list, err := store.ListSnapshots()
	assert.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, store.DeleteSnapshot("2025-06"))

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewSnapshotStoreUnsupported(t *testing.T) {
	_, err := NewSnapshotStore(schema.RedisBackend, "redis://localhost:6379")
	assert.ErrorContains(t, err, "unsupported snapshot backend")
}

func TestClearSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSnapshotStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(testSnapshot("2025-06", "a")))
	require.NoError(t, store.Close())

	require.NoError(t, ClearSnapshots(schema.SQLiteBackend, path, ""))

	store, err = NewSnapshotStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	list, err := store.ListSnapshots()
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.NoError(t, ClearSnapshots(schema.NoneBackend, "", ""))
	assert.Error(t, ClearSnapshots(schema.RedisBackend, "", ""))
}
