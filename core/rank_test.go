package core

import (
	"testing"

	"github.com/aipowerranking/toolrank/core/algo"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLess(t *testing.T) {
	base := schema.ToolScore{ToolID: "m", ToolName: "Middle", OverallScore: 80, PrimaryScore: 79}

	tests := []struct {
		name  string
		other schema.ToolScore
		above bool
	}{
		{"higher overall", schema.ToolScore{ToolID: "z", ToolName: "Zed", OverallScore: 81}, true},
		{"lower overall", schema.ToolScore{ToolID: "a", ToolName: "Aa", OverallScore: 79, PrimaryScore: 99}, false},
		{"higher primary", schema.ToolScore{ToolID: "z", ToolName: "Zed", OverallScore: 80, PrimaryScore: 79.5}, true},
		{"higher first tiebreaker", schema.ToolScore{ToolID: "z", ToolName: "Zed", OverallScore: 80, PrimaryScore: 79, Tiebreakers: schema.Tiebreakers{FeatureCount: 1}}, true},
		{"name ascending", schema.ToolScore{ToolID: "z", ToolName: "alpha", OverallScore: 80, PrimaryScore: 79}, true},
		{"name is case insensitive", schema.ToolScore{ToolID: "z", ToolName: "MIDDLE", OverallScore: 80, PrimaryScore: 79}, false},
		{"id breaks full ties", schema.ToolScore{ToolID: "a", ToolName: "Middle", OverallScore: 80, PrimaryScore: 79}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.above, scoreLess(tt.other, base))
			assert.Equal(t, !tt.above, scoreLess(base, tt.other))
		})
	}
}

func TestSortScores(t *testing.T) {
	scores := []schema.ToolScore{
		{ToolID: "c", ToolName: "C", OverallScore: 70},
		{ToolID: "a", ToolName: "A", OverallScore: 90},
		{ToolID: "b", ToolName: "B", OverallScore: 70, Tiebreakers: schema.Tiebreakers{Alphabetical: 10}},
	}
	sortScores(scores)
	assert.Equal(t, "a", scores[0].ToolID)
	assert.Equal(t, "b", scores[1].ToolID)
	assert.Equal(t, "c", scores[2].ToolID)
}

// uniformFactors sets every factor to v, so the primary score is v.
func uniformFactors(v float64) schema.FactorScores {
	f := make(schema.FactorScores, len(schema.AllFactors))
	for _, name := range schema.AllFactors {
		f[name] = v
	}
	return f
}

func TestTiebreakersNeverOutweighPrimaryScore(t *testing.T) {
	maxed := schema.Tiebreakers{FeatureCount: 100, DescriptionQuality: 100, PricingTier: 100, Alphabetical: 100}

	for _, version := range algo.DefaultRegistry().Versions() {
		t.Run(version, func(t *testing.T) {
			a, err := algo.DefaultRegistry().Get(version)
			require.NoError(t, err)

			lead := 1.01 * a.MaxTiebreakAdjustment()
			aheadPrimary, aheadOverall := a.Aggregate(uniformFactors(50+lead), schema.Tiebreakers{})
			behindPrimary, behindOverall := a.Aggregate(uniformFactors(50), maxed)
			require.Greater(t, aheadPrimary, behindPrimary)

			// Named so that every later key would favor the tool behind.
			ahead := schema.ToolScore{ToolID: "z", ToolName: "Zulu", PrimaryScore: aheadPrimary, OverallScore: aheadOverall}
			behind := schema.ToolScore{ToolID: "a", ToolName: "Alpha", PrimaryScore: behindPrimary, OverallScore: behindOverall, Tiebreakers: maxed}
			assert.GreaterOrEqual(t, ahead.OverallScore, behind.OverallScore)

			scores := []schema.ToolScore{behind, ahead}
			sortScores(scores)
			assert.Equal(t, "z", scores[0].ToolID)
			assert.Equal(t, "a", scores[1].ToolID)
		})
	}
}

func TestEqualOverallFallsBackToPrimary(t *testing.T) {
	maxed := schema.Tiebreakers{FeatureCount: 100, DescriptionQuality: 100, PricingTier: 100, Alphabetical: 100}
	ahead := schema.ToolScore{ToolID: "z", ToolName: "Zulu", PrimaryScore: 50.00102, OverallScore: 50.001}
	behind := schema.ToolScore{ToolID: "a", ToolName: "Alpha", PrimaryScore: 50, OverallScore: 50.001, Tiebreakers: maxed}

	scores := []schema.ToolScore{behind, ahead}
	sortScores(scores)
	assert.Equal(t, []string{"z", "a"}, []string{scores[0].ToolID, scores[1].ToolID})
}

func TestSortFailures(t *testing.T) {
	failures := []schema.ScoringError{{ToolID: "z"}, {ToolID: "b"}, {ToolID: "m"}}
	sortFailures(failures)
	assert.Equal(t, []schema.ScoringError{{ToolID: "b"}, {ToolID: "m"}, {ToolID: "z"}}, failures)
}

func TestRankEntries(t *testing.T) {
	entries := []schema.RankingEntry{{ToolID: "a"}, {ToolID: "b"}, {ToolID: "c"}}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limit below length", 2, 2},
		{"limit above length", 10, 3},
		{"zero means all", 0, 3},
		{"negative means all", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, RankEntries(entries, tt.limit), tt.want)
		})
	}
}
