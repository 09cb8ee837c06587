package schema

import "time"

// Tier labels for ranked tools.
const (
	LeaderTier    = "Leader"
	StrongTier    = "Strong"
	ContenderTier = "Contender"
	EmergingTier  = "Emerging"
)

// EnrichedRankingEntry adds presentation data to a RankingEntry.
type EnrichedRankingEntry struct {
	Label string `json:"label"`
	RankingEntry
}

// GetTierLabel returns the tier for a score on the given scale (10 or 100).
func GetTierLabel(score, scale float64) string {
	if scale <= 0 {
		scale = 100
	}
	pct := score * 100 / scale
	switch {
	case pct >= 85:
		return LeaderTier
	case pct >= 70:
		return StrongTier
	case pct >= 50:
		return ContenderTier
	default:
		return EmergingTier
	}
}

// EnrichEntries adds tier labels to snapshot entries.
func EnrichEntries(entries []RankingEntry, scale float64) []EnrichedRankingEntry {
	output := make([]EnrichedRankingEntry, len(entries))
	for i, e := range entries {
		output[i] = EnrichedRankingEntry{
			Label:        GetTierLabel(e.Score, scale),
			RankingEntry: e,
		}
	}
	return output
}

// RankingOutput is everything a ranking run prints: the top entries of a
// snapshot plus the comparison against the previous period, if any.
type RankingOutput struct {
	SnapshotID       string            `json:"snapshot_id"`
	Period           string            `json:"period"`
	AlgorithmVersion string            `json:"algorithm_version"`
	GeneratedAt      time.Time         `json:"generated_at"`
	Scale            float64           `json:"scale"`
	Precision        int32             `json:"precision"`
	TotalRanked      int               `json:"total_ranked"`
	Entries          []RankingEntry    `json:"entries"`
	Comparison       *ComparisonReport `json:"comparison,omitempty"`
	Errors           []ScoringError    `json:"errors"`
	Skipped          []string          `json:"skipped,omitempty"`
	Persisted        bool              `json:"persisted"`
}

// Movements indexes the comparison entries by tool id.
func (o RankingOutput) Movements() map[string]ComparisonEntry {
	if o.Comparison == nil {
		return nil
	}
	m := make(map[string]ComparisonEntry, len(o.Comparison.Entries))
	for _, e := range o.Comparison.Entries {
		m[e.ToolID] = e
	}
	return m
}
