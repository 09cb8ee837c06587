// Package parquet provides data structures and functions for exporting ranking
// snapshots to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/aipowerranking/toolrank/schema"
	"github.com/parquet-go/parquet-go"
)

// SnapshotRun represents one stored ranking snapshot.
// This struct maps to the toolrank_snapshots database table.
type SnapshotRun struct {
	// SnapshotID is the deterministic identifier of the snapshot
	SnapshotID string `parquet:"snapshot_id,snappy"`

	// Period is the ranking period (YYYY-MM or YYYY-MM-DD)
	Period string `parquet:"period,snappy"`

	// AlgorithmVersion is the version the snapshot was scored with
	AlgorithmVersion string `parquet:"algorithm_version,snappy"`

	// GeneratedAt is the reference date of the run (stored as TIMESTAMP with nanosecond precision)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	// EntryCount is the number of ranked tools
	EntryCount int32 `parquet:"entry_count,snappy"`

	// StoredAt is when the snapshot was persisted (nullable)
	StoredAt *time.Time `parquet:"stored_at,optional,snappy"`
}

// RankingRow represents one ranked tool within a snapshot.
// This struct maps to the toolrank_snapshot_entries database table.
type RankingRow struct {
	SnapshotID       string  `parquet:"snapshot_id,snappy"`
	Period           string  `parquet:"period,snappy"`
	AlgorithmVersion string  `parquet:"algorithm_version,snappy"`
	Position         int32   `parquet:"position,snappy"`
	ToolID           string  `parquet:"tool_id,snappy"`
	ToolName         string  `parquet:"tool_name,snappy"`
	Score            float64 `parquet:"score,snappy"`

	// One column per factor, each in [0, 100]
	AgenticCapability    float64 `parquet:"agentic_capability,snappy"`
	Innovation           float64 `parquet:"innovation,snappy"`
	TechnicalPerformance float64 `parquet:"technical_performance,snappy"`
	DeveloperAdoption    float64 `parquet:"developer_adoption,snappy"`
	MarketTraction       float64 `parquet:"market_traction,snappy"`
	BusinessSentiment    float64 `parquet:"business_sentiment,snappy"`
	DevelopmentVelocity  float64 `parquet:"development_velocity,snappy"`
	PlatformResilience   float64 `parquet:"platform_resilience,snappy"`
}

// writeParquet writes rows of any struct type to a Parquet file.
// The schema is derived from the struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteSnapshotRunsParquet writes a slice of SnapshotRun structs to a Parquet file.
func WriteSnapshotRunsParquet(data []SnapshotRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRankingRowsParquet writes a slice of RankingRow structs to a Parquet file.
func WriteRankingRowsParquet(data []RankingRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertSnapshotSummaries converts stored snapshot summaries to SnapshotRun rows.
func ConvertSnapshotSummaries(summaries []schema.SnapshotSummary) []SnapshotRun {
	result := make([]SnapshotRun, len(summaries))
	for i, s := range summaries {
		run := SnapshotRun{
			SnapshotID:       s.ID,
			Period:           s.Period,
			AlgorithmVersion: s.AlgorithmVersion,
			GeneratedAt:      s.GeneratedAt,
			EntryCount:       int32(s.EntryCount),
		}
		if !s.StoredAt.IsZero() {
			storedAt := s.StoredAt
			run.StoredAt = &storedAt
		}
		result[i] = run
	}
	return result
}

// ConvertSnapshot flattens a snapshot into one RankingRow per entry.
func ConvertSnapshot(snapshot schema.RankingSnapshot) []RankingRow {
	rows := make([]RankingRow, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		f := e.FactorScores
		rows[i] = RankingRow{
			SnapshotID:           snapshot.ID,
			Period:               snapshot.Period,
			AlgorithmVersion:     snapshot.AlgorithmVersion,
			Position:             int32(e.Position),
			ToolID:               e.ToolID,
			ToolName:             e.ToolName,
			Score:                e.Score,
			AgenticCapability:    f[schema.AgenticCapability],
			Innovation:           f[schema.Innovation],
			TechnicalPerformance: f[schema.TechnicalPerformance],
			DeveloperAdoption:    f[schema.DeveloperAdoption],
			MarketTraction:       f[schema.MarketTraction],
			BusinessSentiment:    f[schema.BusinessSentiment],
			DevelopmentVelocity:  f[schema.DevelopmentVelocity],
			PlatformResilience:   f[schema.PlatformResilience],
		}
	}
	return rows
}
