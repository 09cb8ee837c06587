package core

import (
	"errors"
	"testing"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/iocache"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotOf builds a snapshot whose entries follow the given order and scores.
func snapshotOf(period string, ids []string, scores []float64) *schema.RankingSnapshot {
	entries := make([]schema.RankingEntry, len(ids))
	for i, id := range ids {
		entries[i] = schema.RankingEntry{Position: i + 1, ToolID: id, ToolName: "Tool " + id, Score: scores[i]}
	}
	return &schema.RankingSnapshot{Period: period, AlgorithmVersion: "v7", Entries: entries}
}

func findEntry(t *testing.T, report schema.ComparisonReport, id string) schema.ComparisonEntry {
	t.Helper()
	for _, e := range report.Entries {
		if e.ToolID == id {
			return e
		}
	}
	t.Fatalf("tool %s missing from comparison", id)
	return schema.ComparisonEntry{}
}

func TestCompareSnapshotsMovement(t *testing.T) {
	previous := snapshotOf("2025-05", []string{"a", "b", "y", "c", "x"}, []float64{90, 80, 70, 60, 50})
	current := snapshotOf("2025-06", []string{"a", "x", "c", "b", "n"}, []float64{91, 85, 60, 55, 40})

	report, err := CompareSnapshots(current, previous, 5)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", report.CurrentPeriod)
	assert.Equal(t, "2025-05", report.PreviousPeriod)
	assert.False(t, report.NoPriorData)

	x := findEntry(t, report, "x")
	assert.Equal(t, schema.MovementUp, x.Movement)
	assert.Equal(t, 3, x.PositionChange)
	assert.InDelta(t, 35.0, x.ScoreChange, 1e-9)

	y := findEntry(t, report, "y")
	assert.Equal(t, schema.MovementDropped, y.Movement)
	assert.Nil(t, y.NewPosition)
	assert.Nil(t, y.NewScore)
	require.NotNil(t, y.PreviousPosition)
	assert.Equal(t, 3, *y.PreviousPosition)

	assert.Equal(t, schema.MovementSame, findEntry(t, report, "a").Movement)
	assert.Equal(t, schema.MovementUp, findEntry(t, report, "c").Movement)
	b := findEntry(t, report, "b")
	assert.Equal(t, schema.MovementDown, b.Movement)
	assert.Equal(t, -2, b.PositionChange)
	n := findEntry(t, report, "n")
	assert.Equal(t, schema.MovementNew, n.Movement)
	assert.Nil(t, n.PreviousPosition)

	ids := make([]string, len(report.Entries))
	for i, e := range report.Entries {
		ids[i] = e.ToolID
	}
	assert.Equal(t, []string{"a", "x", "c", "b", "n", "y"}, ids, "current order, then dropped tools")
}

func TestCompareSnapshotsCompleteness(t *testing.T) {
	previous := snapshotOf("2025-05", []string{"p", "q", "r", "s"}, []float64{9, 8, 7, 6})
	current := snapshotOf("2025-06", []string{"s", "t", "p"}, []float64{9.5, 8, 7})

	report, err := CompareSnapshots(current, previous, 0)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, e := range report.Entries {
		seen[e.ToolID]++
		if e.Movement == schema.MovementDropped {
			assert.Nil(t, e.NewPosition)
		}
		if e.PreviousPosition != nil && e.NewPosition != nil {
			assert.Equal(t, *e.PreviousPosition-*e.NewPosition, e.PositionChange)
		}
	}
	assert.Equal(t, map[string]int{"p": 1, "q": 1, "r": 1, "s": 1, "t": 1}, seen)

	total := 0
	for _, c := range report.Summary.Counts {
		total += c
	}
	assert.Equal(t, len(report.Entries), total)
	assert.Equal(t, len(report.Entries), report.Summary.TotalTools)
}

func TestCompareSnapshotsInitialRanking(t *testing.T) {
	current := snapshotOf("2025-06", []string{"a", "b"}, []float64{9, 8})

	report, err := CompareSnapshots(current, nil, 5)
	require.NoError(t, err)
	assert.True(t, report.NoPriorData)
	assert.Empty(t, report.PreviousPeriod)
	for _, e := range report.Entries {
		assert.Equal(t, schema.MovementNew, e.Movement)
	}
	assert.Equal(t, 2, report.Summary.Counts[schema.MovementNew])
	assert.Zero(t, report.Summary.Counts[schema.MovementUp])
	assert.Empty(t, report.Summary.BiggestGainers)
	assert.NotNil(t, report.Summary.BiggestGainers)
}

func TestCompareSnapshotsSummary(t *testing.T) {
	previous := snapshotOf("2025-05", []string{"a", "b", "c", "d", "e"}, []float64{9, 8, 7, 6, 5})
	current := snapshotOf("2025-06", []string{"e", "d", "c", "b", "a"}, []float64{9.2, 8.1, 7, 6.4, 5.5})

	report, err := CompareSnapshots(current, previous, 1)
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 2, s.Counts[schema.MovementUp])
	assert.Equal(t, 2, s.Counts[schema.MovementDown])
	assert.Equal(t, 1, s.Counts[schema.MovementSame])
	assert.InDelta(t, 7.24, s.AverageScore, 1e-9)
	assert.Equal(t, 5.5, s.MinScore)
	assert.Equal(t, 9.2, s.MaxScore)
	assert.InDelta(t, 0.24, s.AverageScoreChange, 1e-9)

	require.Len(t, s.BiggestGainers, 1)
	assert.Equal(t, "e", s.BiggestGainers[0].ToolID)
	require.Len(t, s.BiggestLosers, 1)
	assert.Equal(t, "a", s.BiggestLosers[0].ToolID)
}

func TestCompareSnapshotsRejectsBadInput(t *testing.T) {
	_, err := CompareSnapshots(nil, nil, 5)
	assert.Error(t, err)

	dup := snapshotOf("2025-06", []string{"a", "a"}, []float64{9, 8})
	_, err = CompareSnapshots(dup, nil, 5)
	assert.ErrorContains(t, err, "more than once")

	_, err = CompareSnapshots(snapshotOf("2025-06", []string{"a"}, []float64{9}), dup, 5)
	assert.Error(t, err)
}

func TestResolvePrevious(t *testing.T) {
	may := snapshotOf("2025-05", []string{"a"}, []float64{9})

	t.Run("nil store", func(t *testing.T) {
		prev, err := ResolvePrevious(nil, "2025-06", schema.CompareAuto, "")
		assert.NoError(t, err)
		assert.Nil(t, prev)
	})

	t.Run("none skips the store", func(t *testing.T) {
		store := &iocache.MockSnapshotStore{}
		prev, err := ResolvePrevious(store, "2025-06", schema.CompareNone, "")
		assert.NoError(t, err)
		assert.Nil(t, prev)
		store.AssertExpectations(t)
	})

	t.Run("auto uses latest earlier snapshot", func(t *testing.T) {
		store := &iocache.MockSnapshotStore{}
		store.On("LatestBefore", "2025-06").Return(may, nil)
		prev, err := ResolvePrevious(store, "2025-06", schema.CompareAuto, "")
		require.NoError(t, err)
		assert.Equal(t, may, prev)
		store.AssertExpectations(t)
	})

	t.Run("explicit period", func(t *testing.T) {
		store := &iocache.MockSnapshotStore{}
		store.On("GetSnapshot", "2025-05").Return(may, nil)
		prev, err := ResolvePrevious(store, "2025-06", schema.CompareExplicit, "2025-05")
		require.NoError(t, err)
		assert.Equal(t, may, prev)
		store.AssertExpectations(t)
	})

	t.Run("explicit self comparison", func(t *testing.T) {
		_, err := ResolvePrevious(&iocache.MockSnapshotStore{}, "2025-06", schema.CompareExplicit, "2025-06")
		assert.Error(t, err)
	})

	t.Run("not found is not an error", func(t *testing.T) {
		store := &iocache.MockSnapshotStore{}
		store.On("LatestBefore", "2025-06").Return(nil, contract.ErrSnapshotNotFound)
		prev, err := ResolvePrevious(store, "2025-06", schema.CompareAuto, "")
		assert.NoError(t, err)
		assert.Nil(t, prev)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &iocache.MockSnapshotStore{}
		store.On("LatestBefore", "2025-06").Return(nil, errors.New("connection refused"))
		_, err := ResolvePrevious(store, "2025-06", schema.CompareAuto, "")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := ResolvePrevious(&iocache.MockSnapshotStore{}, "2025-06", "sometimes", "")
		assert.Error(t, err)
	})
}
