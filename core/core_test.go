package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/iocache"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
  "tools": [
    {
      "id": "claude-code",
      "name": "Claude Code",
      "slug": "claude-code",
      "category": "autonomous-agent",
      "status": "active",
      "info": {
        "description": "Agentic coding tool that lives in the terminal",
        "features": ["Agent mode", "Multi-file edits", "Subagents"],
        "technical": {"swe_bench_verified": 72.7, "multi_file_support": true, "subprocess_support": true},
        "business": {"pricing_model": "subscription", "base_price": 20}
      }
    },
    {
      "id": "cursor",
      "name": "Cursor",
      "slug": "Cursor-IDE",
      "category": "code-editor",
      "status": "active",
      "info": {
        "description": "AI-first code editor",
        "features": ["Tab completion"],
        "business": {"pricing_model": "freemium", "base_price": 20, "free_tier": true}
      }
    },
    {"id": "legacy", "name": "Legacy", "category": "ide-assistant", "status": "discontinued"}
  ]
}`

// testConfig returns a validated-looking config pointing at a temporary catalog.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogJSON), 0o600))
	return &contract.Config{
		CatalogPath:   path,
		Algorithm:     "v7.3",
		ReferenceDate: testReferenceDate,
		Period:        "2025-06",
		ComparePolicy: schema.CompareAuto,
		ResultLimit:   10,
		Workers:       2,
		TopMovers:     5,
		Output:        schema.TextOut,
		StoreBackend:  schema.SQLiteBackend,
		CacheTTL:      time.Hour,
	}
}

// testManager returns a mocked manager over a real SQLite snapshot store.
func testManager(t *testing.T) (*iocache.MockCacheManager, contract.SnapshotStore) {
	t.Helper()
	store, err := iocache.NewSnapshotStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSignalCache").Return(nil)
	mgr.On("GetSnapshotStore").Return(store)
	return mgr, store
}

func quietContext() context.Context {
	return WithSuppressHeader(context.Background())
}

func TestGetRankingResults(t *testing.T) {
	cfg := testConfig(t)
	mgr, store := testManager(t)

	out, err := GetRankingResults(quietContext(), cfg, mgr)
	require.NoError(t, err)

	assert.Equal(t, "2025-06", out.Period)
	assert.Equal(t, "v7.3", out.AlgorithmVersion)
	assert.Equal(t, 2, out.TotalRanked)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "claude-code", out.Entries[0].ToolID)
	assert.Equal(t, 1, out.Entries[0].Position)
	assert.Equal(t, []string{"legacy"}, out.Skipped)
	assert.Empty(t, out.Errors)
	assert.True(t, out.Persisted)

	require.NotNil(t, out.Comparison)
	assert.True(t, out.Comparison.NoPriorData)

	saved, err := store.GetSnapshot("2025-06")
	require.NoError(t, err)
	assert.Equal(t, out.SnapshotID, saved.ID)
	assert.Len(t, saved.Entries, 2)
}

func TestGetRankingResultsComparesWithEarlierPeriod(t *testing.T) {
	cfg := testConfig(t)
	mgr, store := testManager(t)
	require.NoError(t, store.SaveSnapshot(*snapshotOf("2025-05", []string{"cursor", "gone"}, []float64{80, 70})))

	out, err := GetRankingResults(quietContext(), cfg, mgr)
	require.NoError(t, err)
	require.NotNil(t, out.Comparison)
	assert.Equal(t, "2025-05", out.Comparison.PreviousPeriod)

	moves := out.Movements()
	assert.Equal(t, schema.MovementNew, moves["claude-code"].Movement)
	assert.Equal(t, schema.MovementDown, moves["cursor"].Movement)
	assert.Equal(t, schema.MovementDropped, moves["gone"].Movement)
}

func TestGetRankingResultsDryRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = true
	cfg.ComparePolicy = schema.CompareNone
	cfg.ResultLimit = 1
	mgr, store := testManager(t)

	out, err := GetRankingResults(quietContext(), cfg, mgr)
	require.NoError(t, err)
	assert.False(t, out.Persisted)
	assert.Nil(t, out.Comparison)
	assert.Len(t, out.Entries, 1)
	assert.Equal(t, 2, out.TotalRanked)

	_, err = store.GetSnapshot("2025-06")
	assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)
}

func TestGetRankingResultsWithoutManager(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "toolrank.prom")

	out, err := GetRankingResults(quietContext(), cfg, nil)
	require.NoError(t, err)
	assert.False(t, out.Persisted)

	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), MetricToolsScoredTotal)
}

func TestGetRankingResultsErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *contract.Config)
	}{
		{"unknown algorithm", func(cfg *contract.Config) { cfg.Algorithm = "v1" }},
		{"missing catalog", func(cfg *contract.Config) { cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.json") }},
		{"missing signals", func(cfg *contract.Config) { cfg.SignalsPath = filepath.Join(t.TempDir(), "missing.yaml") }},
		{"bad custom weights", func(cfg *contract.Config) {
			cfg.CustomWeights = map[string]contract.CustomWeights{"broken": {Base: "v0"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)
			_, err := GetRankingResults(quietContext(), cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestGetToolScoreResult(t *testing.T) {
	cfg := testConfig(t)

	t.Run("by id", func(t *testing.T) {
		cfg.ToolID = "claude-code"
		score, info, err := GetToolScoreResult(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "claude-code", score.ToolID)
		assert.Equal(t, "v7.3", score.AlgorithmVersion)
		assert.Equal(t, "v7.3", info.Version)
		assert.Positive(t, score.OverallScore)
	})

	t.Run("by slug", func(t *testing.T) {
		cfg.ToolID = "cursor-ide"
		score, _, err := GetToolScoreResult(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "cursor", score.ToolID)
	})

	t.Run("missing id", func(t *testing.T) {
		cfg.ToolID = ""
		_, _, err := GetToolScoreResult(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("unknown tool", func(t *testing.T) {
		cfg.ToolID = "nope"
		_, _, err := GetToolScoreResult(cfg, nil)
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("inactive tools can still be scored", func(t *testing.T) {
		cfg.ToolID = "legacy"
		score, _, err := GetToolScoreResult(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "legacy", score.ToolID)
	})
}

func TestExecuteScoreWritesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ToolID = "cursor"
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "score.json")

	require.NoError(t, ExecuteScore(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tool_id": "cursor"`)
}

func TestGetComparisonResults(t *testing.T) {
	cfg := testConfig(t)
	mgr, store := testManager(t)
	require.NoError(t, store.SaveSnapshot(*snapshotOf("2025-04", []string{"a", "b"}, []float64{9, 8})))
	require.NoError(t, store.SaveSnapshot(*snapshotOf("2025-05", []string{"b", "a"}, []float64{9, 8})))
	require.NoError(t, store.SaveSnapshot(*snapshotOf("2025-06", []string{"a", "c"}, []float64{9, 8})))

	t.Run("latest earlier period", func(t *testing.T) {
		cfg.CurrentPeriod, cfg.PreviousPeriod = "2025-06", ""
		report, precision, err := GetComparisonResults(cfg, mgr)
		require.NoError(t, err)
		assert.Equal(t, "2025-05", report.PreviousPeriod)
		assert.Equal(t, int32(3), precision, "precision of the v7 snapshot")
		assert.Equal(t, 1, report.Summary.Counts[schema.MovementDropped])
	})

	t.Run("explicit period", func(t *testing.T) {
		cfg.CurrentPeriod, cfg.PreviousPeriod = "2025-06", "2025-04"
		report, _, err := GetComparisonResults(cfg, mgr)
		require.NoError(t, err)
		assert.Equal(t, "2025-04", report.PreviousPeriod)
		assert.Equal(t, 1, report.Summary.Counts[schema.MovementSame])
	})

	t.Run("explicit period without snapshot", func(t *testing.T) {
		cfg.CurrentPeriod, cfg.PreviousPeriod = "2025-06", "2024-01"
		report, _, err := GetComparisonResults(cfg, mgr)
		require.NoError(t, err)
		assert.True(t, report.NoPriorData)
	})

	t.Run("missing current snapshot", func(t *testing.T) {
		cfg.CurrentPeriod, cfg.PreviousPeriod = "2030-01", ""
		_, _, err := GetComparisonResults(cfg, mgr)
		assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)
	})

	t.Run("no period", func(t *testing.T) {
		cfg.CurrentPeriod = ""
		_, _, err := GetComparisonResults(cfg, mgr)
		assert.Error(t, err)
	})

	t.Run("no store", func(t *testing.T) {
		cfg.CurrentPeriod = "2025-06"
		_, _, err := GetComparisonResults(cfg, nil)
		assert.Error(t, err)
	})
}

func TestGetAlgorithmInfos(t *testing.T) {
	cfg := testConfig(t)

	infos, err := GetAlgorithmInfos(cfg)
	require.NoError(t, err)
	versions := make([]string, len(infos))
	for i, info := range infos {
		versions[i] = info.Version
	}
	assert.ElementsMatch(t, []string{"v6", "v7", "v7.3"}, versions)

	cfg.VersionArg = "v6"
	infos, err = GetAlgorithmInfos(cfg)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "v6", infos[0].Version)

	cfg.VersionArg = "v99"
	_, err = GetAlgorithmInfos(cfg)
	assert.Error(t, err)
}

func TestNewRegistryWithCustomWeights(t *testing.T) {
	weights := make(map[schema.FactorName]float64, len(schema.AllFactors))
	for _, f := range schema.AllFactors {
		weights[f] = 0.125
	}
	cfg := testConfig(t)
	cfg.CustomWeights = map[string]contract.CustomWeights{"flat": {Base: "v7", Weights: weights}}

	registry, err := newRegistry(cfg)
	require.NoError(t, err)
	info, err := registry.Info("flat")
	require.NoError(t, err)
	assert.Equal(t, 0.125, info.Weights[schema.AgenticCapability])

	_, err = GetAlgorithmInfo("flat")
	assert.Error(t, err, "custom versions never leak into the default registry")

	cfg.Algorithm = "flat"
	out, err := GetRankingResults(quietContext(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "flat", out.AlgorithmVersion)
}

func TestFindTool(t *testing.T) {
	tools := []schema.ToolRecord{
		{ID: "cursor", Slug: "cursor-ide"},
		{ID: "Cursor-IDE"},
	}

	tests := []struct {
		id     string
		wantID string
		found  bool
	}{
		{"cursor", "cursor", true},
		{"Cursor-IDE", "Cursor-IDE", true},
		{"CURSOR-ide", "cursor", true},
		{"windsurf", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			tool, ok := findTool(tools, tt.id)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, tool.ID)
		})
	}
}

func TestRankSummaries(t *testing.T) {
	summaries := []schema.SnapshotSummary{{Period: "2025-06"}, {Period: "2025-05"}, {Period: "2025-04"}}
	assert.Len(t, RankSummaries(summaries, 2), 2)
	assert.Len(t, RankSummaries(summaries, 0), 3)
}
