// Package schema has models, constants and status types for all parts of toolrank.
package schema

import "time"

// FactorScores maps every factor to a value in [0, 100].
type FactorScores map[FactorName]float64

// Clone returns a copy of the scores.
func (f FactorScores) Clone() FactorScores {
	out := make(FactorScores, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Tiebreakers are the secondary ordering signals, each in [0, 100].
// Field order is significance order.
type Tiebreakers struct {
	FeatureCount       float64 `json:"feature_count"`
	DescriptionQuality float64 `json:"description_quality"`
	PricingTier        float64 `json:"pricing_tier"`
	Alphabetical       float64 `json:"alphabetical"`
}

// Values returns the tiebreakers in significance order.
func (t Tiebreakers) Values() [4]float64 {
	return [4]float64{t.FeatureCount, t.DescriptionQuality, t.PricingTier, t.Alphabetical}
}

// ToolScore is the scoring result for one tool under one algorithm version.
//
// OverallScore includes the tiebreak adjustment, so a tool with perfect factors
// can exceed the version's scale by at most that adjustment (100.001 on v7).
type ToolScore struct {
	ToolID           string       `json:"tool_id"`
	ToolName         string       `json:"tool_name"`
	OverallScore     float64      `json:"overall_score"`
	PrimaryScore     float64      `json:"primary_score"` // weighted sum before tiebreakers, 0-100
	FactorScores     FactorScores `json:"factor_scores"`
	Tiebreakers      Tiebreakers  `json:"tiebreakers"`
	AlgorithmVersion string       `json:"algorithm_version"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// RankingEntry is one ranked tool within a snapshot.
type RankingEntry struct {
	Position     int          `json:"position"`
	ToolID       string       `json:"tool_id"`
	ToolName     string       `json:"tool_name"`
	Score        float64      `json:"score"`
	FactorScores FactorScores `json:"factor_scores"`
}

// RankingSnapshot is an immutable, fully ordered ranking for one period.
type RankingSnapshot struct {
	ID               string         `json:"id"`
	Period           string         `json:"period"`
	AlgorithmVersion string         `json:"algorithm_version"`
	GeneratedAt      time.Time      `json:"generated_at"`
	Entries          []RankingEntry `json:"entries"`
}

// ScoringError records a tool that could not be scored in a run.
type ScoringError struct {
	ToolID string `json:"tool_id"`
	Error  string `json:"error"`
}

// RankingResult is the outcome of a ranking run. Errors lists tools excluded
// because scoring failed; Skipped lists tools that are not active.
type RankingResult struct {
	Snapshot RankingSnapshot `json:"snapshot"`
	Scores   []ToolScore     `json:"-"`
	Errors   []ScoringError  `json:"errors"`
	Skipped  []string        `json:"skipped,omitempty"`
}

// AlgorithmInfo describes a registered algorithm version.
type AlgorithmInfo struct {
	Version     string                 `json:"version"`
	Description string                 `json:"description"`
	Weights     map[FactorName]float64 `json:"weights"`
	Features    []string               `json:"features"`
	Scale       float64                `json:"scale"`
	Precision   int32                  `json:"precision"`
}

// SnapshotSummary describes a stored snapshot without its entries.
type SnapshotSummary struct {
	ID               string    `json:"id"`
	Period           string    `json:"period"`
	AlgorithmVersion string    `json:"algorithm_version"`
	GeneratedAt      time.Time `json:"generated_at"`
	EntryCount       int       `json:"entry_count"`
	StoredAt         time.Time `json:"stored_at"`
}
