package algo

import (
	"math"
	"testing"

	"github.com/aipowerranking/toolrank/schema"
)

// FuzzScoreBounds checks that arbitrary numeric metadata never pushes a factor
// outside [0, 100] or produces a NaN overall score.
func FuzzScoreBounds(f *testing.F) {
	f.Add("autonomous-agent", "agentic terminal", 45.0, 1e6, 5e7, 3.0, 20.0, 2020)
	f.Add("", "", 0.0, 0.0, 0.0, 0.0, 0.0, 0)
	f.Add("ide_assistant", "deprecated", -1.0, -1e18, math.Inf(1), math.NaN(), -40.0, 9999)

	f.Fuzz(func(t *testing.T, category, text string, bench, users, arr, providers, velocity float64, founded int) {
		tool := schema.ToolRecord{
			ID:       "fuzz",
			Name:     text,
			Category: category,
			Info: &schema.ToolInfo{
				Description: text,
				Technical: &schema.TechnicalInfo{
					SWEBenchVerified: schema.Float(bench),
					SWEBenchLite:     schema.Float(bench / 2),
					ContextWindow:    schema.Float(users),
					LLMProviderCount: schema.Float(providers),
					LanguageCount:    schema.Float(providers * 10),
				},
				Metrics: &schema.MetricsInfo{
					Users:       schema.Float(users),
					MonthlyARR:  schema.Float(arr),
					GitHubStars: schema.Float(users / 10),
					Employees:   schema.Float(providers * 100),
				},
				Business:    &schema.BusinessInfo{BasePrice: schema.Float(arr / 1e6)},
				FoundedYear: &founded,
			},
		}
		signals := NewSignals(
			map[string]float64{"fuzz": velocity},
			map[string]schema.NewsImpact{"fuzz": {TotalImpact: velocity}},
		)

		for _, version := range DefaultRegistry().Versions() {
			a, err := DefaultRegistry().Get(version)
			if err != nil {
				t.Fatal(err)
			}
			score, err := a.Score(tool, testInputs(signals), true)
			if err != nil {
				t.Fatalf("%s: %v", version, err)
			}
			for factor, v := range score.FactorScores {
				if math.IsNaN(v) || v < 0 || v > 100 {
					t.Fatalf("%s: %s = %v", version, factor, v)
				}
			}
			ceiling := roundTo((maxScore+a.MaxTiebreakAdjustment())*a.Scale/maxScore, a.Precision)
			if math.IsNaN(score.OverallScore) || score.OverallScore < 0 || score.OverallScore > ceiling {
				t.Fatalf("%s: overall = %v", version, score.OverallScore)
			}
			tb := score.Tiebreakers.Values()
			for i, v := range tb {
				if math.IsNaN(v) || v < 0 || v > 100 {
					t.Fatalf("%s: tiebreaker %d = %v", version, i, v)
				}
			}
		}
	})
}
