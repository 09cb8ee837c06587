package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAlgorithms(t *testing.T) {
	infos := []schema.AlgorithmInfo{{
		Version:     "v7",
		Description: "Balanced",
		Weights:     map[schema.FactorName]float64{schema.AgenticCapability: 0.6, schema.Innovation: 0.4},
		Features:    []string{"tiebreakers"},
		Scale:       10,
		Precision:   3,
	}}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAlgorithms(&buf, infos, &contract.Config{}))
		text := buf.String()
		assert.Contains(t, text, "v7: Balanced")
		assert.Contains(t, text, "Scale: 0-10, 3 decimals")
		assert.Contains(t, text, "Formula: Score = 0.600*agentic_capability + 0.400*innovation")
		assert.Contains(t, text, "Features: tiebreakers")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAlgorithms(&buf, infos, &contract.Config{Output: schema.CSVOut}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"v7", "10", "3", "0.600", "0.400"}, records[1][:5])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAlgorithms(&buf, infos, &contract.Config{Output: schema.JSONOut}))
		var decoded []schema.AlgorithmInfo
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, infos, decoded)
	})
}

func TestWriteSnapshotList(t *testing.T) {
	summaries := []schema.SnapshotSummary{{
		ID:               "snap-1",
		Period:           "2025-06",
		AlgorithmVersion: "v7.3",
		GeneratedAt:      time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		EntryCount:       42,
		StoredAt:         time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC),
	}}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotList(&buf, summaries, &contract.Config{}))
		assert.Contains(t, buf.String(), "2025-06")
		assert.Contains(t, buf.String(), "42")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotList(&buf, nil, &contract.Config{}))
		assert.Equal(t, "No snapshots stored\n", buf.String())

		buf.Reset()
		require.NoError(t, WriteSnapshotList(&buf, nil, &contract.Config{Output: schema.JSONOut}))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotList(&buf, summaries, &contract.Config{Output: schema.CSVOut}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"2025-06", "snap-1", "v7.3", "2025-06-30", "42", "2025-07-01T08:00:00Z"}, records[1])
	})
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name string
		cfg  *contract.Config
		want int
	}{
		{"narrow clamps to minimum", &contract.Config{Width: 40}, 12},
		{"wide clamps to maximum", &contract.Config{Width: 300}, 48},
		{"in between", &contract.Config{Width: 80}, 30},
		{"detail needs more room", &contract.Config{Width: 160, Detail: true}, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetMaxTableNameWidth(tt.cfg))
		})
	}
}
