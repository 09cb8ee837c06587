package algo

import "github.com/aipowerranking/toolrank/schema"

// VersionV6 is the legacy algorithm. Its overall score is on a 0-10 scale with
// one decimal place; factor scores are still 0-100.
const VersionV6 = "v6"

var v6CategoryAgentic = map[string]float64{
	"autonomous-agent": 25,
	"app-builder":      15,
	"code-editor":      10,
	"ide-assistant":    5,
}

var v6AgenticKeywords = []string{"autonomous", "agent", "multi-step", "terminal", "pull request"}

var v6InnovationKeywords = []string{"first", "novel", "multimodal", "reasoning", "voice"}

func newV6() *Algorithm {
	return &Algorithm{
		Version:     VersionV6,
		Description: "Legacy ranking on a 0-10 scale, kept for re-rendering historical periods.",
		Features: []string{
			"eight factors, overall score on a 0-10 scale",
			"SWE-bench lite only",
			"one decimal place",
		},
		Weights: map[schema.FactorName]float64{
			schema.AgenticCapability:    0.25,
			schema.Innovation:           0.15,
			schema.TechnicalPerformance: 0.20,
			schema.DeveloperAdoption:    0.15,
			schema.MarketTraction:       0.10,
			schema.BusinessSentiment:    0.05,
			schema.DevelopmentVelocity:  0.05,
			schema.PlatformResilience:   0.05,
		},
		Scorers: map[schema.FactorName]Scorer{
			schema.AgenticCapability:    v6Agentic,
			schema.Innovation:           v6Innovation,
			schema.TechnicalPerformance: v6Technical,
			schema.DeveloperAdoption:    v6Adoption,
			schema.MarketTraction:       v6Traction,
			schema.BusinessSentiment:    v6Sentiment,
			schema.DevelopmentVelocity:  v6Velocity,
			schema.PlatformResilience:   v6Resilience,
		},
		Scale:     10,
		Precision: 1,
		Tiebreak:  [4]float64{1e-5, 1e-7, 1e-9, 1e-11},
	}
}

func v6Agentic(tool schema.ToolRecord, _ Inputs) float64 {
	score := 50.0
	if tool.Info == nil {
		return score
	}
	score = addClamped(score, v6CategoryAgentic[normalizeCategory(tool.Category)])
	score = addClamped(score, keywordBonus(tool.Text(), v6AgenticKeywords, 5, 20))
	return score
}

func v6Innovation(tool schema.ToolRecord, _ Inputs) float64 {
	score := 50.0
	if tool.Info == nil {
		return score
	}
	score = addClamped(score, keywordBonus(tool.Text(), v6InnovationKeywords, 5, 25))
	score = addClamped(score, bandPoints(float64(tool.FeatureCount()), []band{{min: 10, points: 10}, {min: 5, points: 5}}))
	return score
}

func v6Technical(tool schema.ToolRecord, _ Inputs) float64 {
	score := 50.0
	tech := tool.Technical()
	if tech == nil {
		return score
	}
	if lite, ok := benchmarkResult(tech.SWEBenchLite); ok {
		score = bandPoints(lite, []band{{min: 40, points: 90}, {min: 25, points: 75}, {min: 10, points: 60}, {min: 0, points: 45}})
	}
	if schema.Flag(tech.MultiFileSupport) {
		score = addClamped(score, 5)
	}
	return score
}

func v6Adoption(tool schema.ToolRecord, _ Inputs) float64 {
	score := 40.0
	m := tool.Metrics()
	if m == nil {
		return score
	}
	if users, ok := schema.Num(m.Users); ok {
		score = addClamped(score, bandPoints(users, []band{{min: 1_000_000, points: 40}, {min: 100_000, points: 25}, {min: 10_000, points: 10}}))
	}
	if stars, ok := schema.Num(m.GitHubStars); ok {
		score = addClamped(score, bandPoints(stars, []band{{min: 50_000, points: 20}, {min: 10_000, points: 10}}))
	}
	return score
}

func v6Traction(tool schema.ToolRecord, _ Inputs) float64 {
	score := 40.0
	m := tool.Metrics()
	if m == nil {
		return score
	}
	if arr, ok := schema.Num(m.MonthlyARR); ok {
		score = addClamped(score, bandPoints(arr, []band{{min: 100_000_000, points: 40}, {min: 10_000_000, points: 25}, {min: 1_000_000, points: 10}}))
	}
	if funding, ok := schema.Num(m.Funding); ok {
		score = addClamped(score, bandPoints(funding, []band{{min: 100_000_000, points: 15}, {min: 10_000_000, points: 8}}))
	}
	return score
}

func v6Sentiment(tool schema.ToolRecord, in Inputs) float64 {
	score := 50.0
	if impact, ok := in.Signals.NewsImpact(tool.ID); ok {
		score = addClamped(score, impact)
	}
	return score
}

func v6Velocity(tool schema.ToolRecord, in Inputs) float64 {
	if v, ok := in.Signals.Velocity(tool.ID); ok {
		return clamp(v)
	}
	return 50.0
}

func v6Resilience(tool schema.ToolRecord, _ Inputs) float64 {
	score := 50.0
	tech := tool.Technical()
	if tech == nil {
		return score
	}
	if providers, ok := schema.Num(tech.LLMProviderCount); ok {
		score = addClamped(score, bandPoints(providers, []band{{min: 3, points: 20}, {min: 2, points: 10}}))
	}
	return score
}
