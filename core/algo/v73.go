package algo

import "github.com/aipowerranking/toolrank/schema"

// VersionV73 rebalances v7 toward measured technical performance.
const VersionV73 = "v7.3"

// Base scores for the factors v7.3 redefines.
const (
	v73AgenticBase    = 35.0
	v73InnovationBase = 40.0
	v73TechnicalBase  = 50.0
)

var v73CategoryAgentic = map[string]float64{
	"autonomous-agent":      35,
	"app-builder":           20,
	"code-editor":           15,
	"open-source-framework": 15,
	"devops-assistant":      12,
	"ide-assistant":         8,
	"code-review":           5,
	"testing-tool":          5,
}

var v73AgenticKeywords = []string{
	"autonomous", "agentic", "agent", "multi-step", "planning", "plan mode",
	"execute", "terminal", "pull request", "self-healing", "end-to-end",
	"background", "subagent", "long-running", "issue to pr",
}

var v73InnovationKeywords = []string{
	"first", "novel", "breakthrough", "multimodal", "voice", "spec-driven",
	"reasoning", "mcp", "model context protocol", "parallel agents", "sandbox",
	"memory", "hooks", "custom agents", "browser",
}

// Verified results are trusted more than lite, so they carry their own bands.
var (
	v73VerifiedBands = []band{
		{min: 70, points: 98},
		{min: 60, points: 95},
		{min: 50, points: 90},
		{min: 40, points: 82},
		{min: 30, points: 72},
		{min: 20, points: 60},
		{min: 0, points: 45},
	}
	v73LiteBands = []band{
		{min: 45, points: 92},
		{min: 35, points: 84},
		{min: 25, points: 74},
		{min: 15, points: 60},
		{min: 0, points: 42},
	}
	v73FullBands = []band{
		{min: 30, points: 85},
		{min: 20, points: 72},
		{min: 10, points: 58},
		{min: 0, points: 42},
	}
	v73ContextBands = []band{
		{min: 1_000_000, points: 12},
		{min: 400_000, points: 9},
		{min: 200_000, points: 7},
		{min: 100_000, points: 4},
	}
)

var v73Overrides = []CalibrationOverride{
	{Pattern: "claude code", Bounds: map[schema.FactorName]Bounds{
		schema.AgenticCapability:    floor(92),
		schema.TechnicalPerformance: floor(88),
	}},
	{Pattern: "devin", Bounds: map[schema.FactorName]Bounds{
		schema.AgenticCapability: floor(88),
	}},
	{Pattern: "github copilot", Bounds: map[schema.FactorName]Bounds{
		schema.DeveloperAdoption: floor(88),
	}},
	{Pattern: "cursor", Bounds: map[schema.FactorName]Bounds{
		schema.DeveloperAdoption: floor(82),
	}},
}

// newV73 builds the v7.3 algorithm. Adoption, traction, sentiment, velocity
// and resilience are scored exactly as in v7.
func newV73() *Algorithm {
	return &Algorithm{
		Version:     VersionV73,
		Description: "v7 rebalanced toward technical performance with separate SWE-bench verified/lite/full bands.",
		Features: []string{
			"eight factors on a 0-100 scale",
			"separate SWE-bench verified, lite and full bands",
			"technical weight raised to 20%",
			"extended agentic and innovation keyword sets",
			"news impact folded into business sentiment",
			"precomputed velocity signals with heuristic fallback",
			"calibration overrides",
		},
		Weights: map[schema.FactorName]float64{
			schema.AgenticCapability:    0.25,
			schema.Innovation:           0.125,
			schema.TechnicalPerformance: 0.20,
			schema.DeveloperAdoption:    0.125,
			schema.MarketTraction:       0.125,
			schema.BusinessSentiment:    0.075,
			schema.DevelopmentVelocity:  0.05,
			schema.PlatformResilience:   0.05,
		},
		Scorers: map[schema.FactorName]Scorer{
			schema.AgenticCapability:    v73Agentic,
			schema.Innovation:           v73Innovation,
			schema.TechnicalPerformance: v73Technical,
			schema.DeveloperAdoption:    v7Adoption,
			schema.MarketTraction:       v7Traction,
			schema.BusinessSentiment:    v7Sentiment,
			schema.DevelopmentVelocity:  v7Velocity,
			schema.PlatformResilience:   v7Resilience,
		},
		Scale:     100,
		Precision: 3,
		Tiebreak:  [4]float64{1e-5, 1e-7, 1e-9, 1e-11},
		Overrides: v73Overrides,
	}
}

func v73Agentic(tool schema.ToolRecord, _ Inputs) float64 {
	score := v73AgenticBase
	if tool.Info == nil {
		return score
	}
	score = addClamped(score, v73CategoryAgentic[normalizeCategory(tool.Category)])
	score = addClamped(score, keywordBonus(tool.Text(), v73AgenticKeywords, 3, 18))
	if tech := tool.Technical(); tech != nil {
		if schema.Flag(tech.SubprocessSupport) {
			score = addClamped(score, 6)
		}
		if schema.Flag(tech.ToolUse) {
			score = addClamped(score, 6)
		}
		if schema.Flag(tech.MultiFileSupport) {
			score = addClamped(score, 4)
		}
	}
	return score
}

func v73Innovation(tool schema.ToolRecord, in Inputs) float64 {
	score := v73InnovationBase
	if tool.Info == nil {
		return score
	}
	score = addClamped(score, v7CategoryInnovation[normalizeCategory(tool.Category)])
	score = addClamped(score, keywordBonus(tool.Text(), v73InnovationKeywords, 3, 27))
	score = addClamped(score, bandPoints(float64(tool.FeatureCount()), []band{
		{min: 20, points: 12},
		{min: 12, points: 8},
		{min: 6, points: 4},
	}))
	if founded := tool.Info.FoundedYear; founded != nil && !in.ReferenceDate.IsZero() {
		if age := in.ReferenceDate.Year() - *founded; age >= 0 && age <= 2 {
			score = addClamped(score, 5)
		}
	}
	return score
}

func v73Technical(tool schema.ToolRecord, _ Inputs) float64 {
	tech := tool.Technical()
	if tech == nil {
		return v73TechnicalBase
	}

	score := v73TechnicalBase
	bonusScale := 1.0
	if v, ok := benchmarkResult(tech.SWEBenchVerified); ok {
		score, bonusScale = bandPoints(v, v73VerifiedBands), 0.25
	} else if v, ok := benchmarkResult(tech.SWEBenchLite); ok {
		score, bonusScale = bandPoints(v, v73LiteBands), 0.25
	} else if v, ok := benchmarkResult(tech.SWEBenchFull); ok {
		score, bonusScale = bandPoints(v, v73FullBands), 0.25
	}

	if ctx, ok := schema.Num(tech.ContextWindow); ok {
		score = addClamped(score, bonusScale*bandPoints(ctx, v73ContextBands))
	}
	if schema.Flag(tech.MultiFileSupport) {
		score = addClamped(score, bonusScale*5)
	}
	if langs, ok := schema.Num(tech.LanguageCount); ok {
		score = addClamped(score, bonusScale*bandPoints(langs, []band{{min: 30, points: 6}, {min: 15, points: 4}, {min: 5, points: 2}}))
	}
	if providers, ok := schema.Num(tech.LLMProviderCount); ok {
		score = addClamped(score, bonusScale*bandPoints(providers, []band{{min: 5, points: 5}, {min: 3, points: 3}}))
	}
	if schema.Flag(tech.SubprocessSupport) {
		score = addClamped(score, bonusScale*3)
	}
	if schema.Flag(tech.ToolUse) {
		score = addClamped(score, bonusScale*2)
	}
	return score
}
