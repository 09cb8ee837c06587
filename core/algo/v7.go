package algo

import (
	"strings"

	"github.com/aipowerranking/toolrank/schema"
)

// VersionV7 is the first algorithm on the 0-100 scale.
const VersionV7 = "v7"

// Base scores for v7 when a factor has no signal at all.
const (
	v7AgenticBase    = 40.0
	v7InnovationBase = 40.0
	v7TechnicalBase  = 50.0
	v7AdoptionBase   = 30.0
	v7TractionBase   = 30.0
	v7SentimentBase  = 50.0
	v7VelocityBase   = 40.0
	v7ResilienceBase = 50.0
)

var v7CategoryAgentic = map[string]float64{
	"autonomous-agent":      30,
	"app-builder":           20,
	"code-editor":           15,
	"open-source-framework": 15,
	"ide-assistant":         10,
	"devops-assistant":      10,
	"code-review":           5,
	"testing-tool":          5,
}

var v7CategoryInnovation = map[string]float64{
	"autonomous-agent":      10,
	"app-builder":           8,
	"code-editor":           5,
	"open-source-framework": 5,
}

var v7AgenticKeywords = []string{
	"autonomous", "agentic", "agent", "multi-step", "planning", "plan mode",
	"execute", "terminal", "pull request", "self-healing", "end-to-end", "background",
}

var v7InnovationKeywords = []string{
	"first", "novel", "breakthrough", "multimodal", "voice", "spec-driven",
	"reasoning", "mcp", "model context protocol", "parallel agents", "sandbox", "memory",
}

var v7PositiveSentiment = []string{"enterprise", "soc 2", "secure", "trusted", "privacy", "award"}

var v7NegativeSentiment = []string{"deprecated", "discontinued", "lawsuit", "outage", "breach", "layoffs"}

var v7VelocityKeywords = []string{"weekly release", "changelog", "rapid", "new release", "launched", "shipping"}

// v7BenchmarkBands apply to SWE-bench verified, then lite, then full.
var v7BenchmarkBands = []band{
	{min: 50, points: 95},
	{min: 40, points: 90},
	{min: 30, points: 80},
	{min: 20, points: 70},
	{min: 12, points: 55},
	{min: 0, points: 40},
}

var (
	v7StarsBands = []band{
		{min: 100_000, points: 35},
		{min: 50_000, points: 28},
		{min: 20_000, points: 20},
		{min: 5_000, points: 12},
		{min: 1_000, points: 6},
	}
	v7UserBands = []band{
		{min: 10_000_000, points: 30},
		{min: 1_000_000, points: 25},
		{min: 500_000, points: 20},
		{min: 100_000, points: 14},
		{min: 10_000, points: 7},
	}
	v7NewsBands = []band{
		{min: 100, points: 10},
		{min: 50, points: 7},
		{min: 20, points: 4},
		{min: 5, points: 2},
	}
	v7RevenueBands = []band{
		{min: 1_000_000_000, points: 40},
		{min: 500_000_000, points: 35},
		{min: 100_000_000, points: 28},
		{min: 50_000_000, points: 22},
		{min: 10_000_000, points: 15},
		{min: 1_000_000, points: 8},
	}
	v7ValuationBands = []band{
		{min: 10_000_000_000, points: 20},
		{min: 1_000_000_000, points: 15},
		{min: 100_000_000, points: 8},
	}
	v7FundingBands = []band{
		{min: 1_000_000_000, points: 10},
		{min: 100_000_000, points: 7},
		{min: 10_000_000, points: 4},
	}
	v7ContextBands = []band{
		{min: 1_000_000, points: 10},
		{min: 200_000, points: 7},
		{min: 100_000, points: 4},
	}
)

// v7Overrides are the calibration floors for tools whose public results the
// generic heuristics under-read.
var v7Overrides = []CalibrationOverride{
	{Pattern: "claude code", Bounds: map[schema.FactorName]Bounds{
		schema.AgenticCapability:    floor(90),
		schema.TechnicalPerformance: floor(85),
	}},
	{Pattern: "devin", Bounds: map[schema.FactorName]Bounds{
		schema.AgenticCapability: floor(88),
	}},
	{Pattern: "github copilot", Bounds: map[schema.FactorName]Bounds{
		schema.DeveloperAdoption: floor(85),
		schema.AgenticCapability: ceil(80),
	}},
	{Pattern: "cursor", Bounds: map[schema.FactorName]Bounds{
		schema.DeveloperAdoption: floor(80),
	}},
}

// newV7 builds the v7 algorithm.
func newV7() *Algorithm {
	return &Algorithm{
		Version:     VersionV7,
		Description: "Agentic-first ranking on a 0-100 scale with SWE-bench banding and news impact.",
		Features: []string{
			"eight factors on a 0-100 scale",
			"SWE-bench verified/lite/full banding",
			"news impact folded into business sentiment",
			"precomputed velocity signals with heuristic fallback",
			"calibration overrides",
		},
		Weights: map[schema.FactorName]float64{
			schema.AgenticCapability:    0.30,
			schema.Innovation:           0.15,
			schema.TechnicalPerformance: 0.125,
			schema.DeveloperAdoption:    0.125,
			schema.MarketTraction:       0.125,
			schema.BusinessSentiment:    0.075,
			schema.DevelopmentVelocity:  0.05,
			schema.PlatformResilience:   0.05,
		},
		Scorers: map[schema.FactorName]Scorer{
			schema.AgenticCapability:    v7Agentic,
			schema.Innovation:           v7Innovation,
			schema.TechnicalPerformance: v7Technical,
			schema.DeveloperAdoption:    v7Adoption,
			schema.MarketTraction:       v7Traction,
			schema.BusinessSentiment:    v7Sentiment,
			schema.DevelopmentVelocity:  v7Velocity,
			schema.PlatformResilience:   v7Resilience,
		},
		Scale:     100,
		Precision: 3,
		Tiebreak:  [4]float64{1e-5, 1e-7, 1e-9, 1e-11},
		Overrides: v7Overrides,
	}
}

func v7Agentic(tool schema.ToolRecord, _ Inputs) float64 {
	score := v7AgenticBase
	if tool.Info == nil {
		return score
	}
	score = addClamped(score, v7CategoryAgentic[normalizeCategory(tool.Category)])
	score = addClamped(score, keywordBonus(tool.Text(), v7AgenticKeywords, 3, 15))
	if tech := tool.Technical(); tech != nil {
		if schema.Flag(tech.SubprocessSupport) {
			score = addClamped(score, 5)
		}
		if schema.Flag(tech.ToolUse) {
			score = addClamped(score, 5)
		}
		if schema.Flag(tech.MultiFileSupport) {
			score = addClamped(score, 5)
		}
	}
	return score
}

func v7Innovation(tool schema.ToolRecord, in Inputs) float64 {
	score := v7InnovationBase
	if tool.Info == nil {
		return score
	}
	score = addClamped(score, v7CategoryInnovation[normalizeCategory(tool.Category)])
	score = addClamped(score, keywordBonus(tool.Text(), v7InnovationKeywords, 4, 24))
	score = addClamped(score, bandPoints(float64(tool.FeatureCount()), []band{
		{min: 15, points: 10},
		{min: 8, points: 6},
		{min: 4, points: 3},
	}))
	if founded := tool.Info.FoundedYear; founded != nil && !in.ReferenceDate.IsZero() {
		if age := in.ReferenceDate.Year() - *founded; age >= 0 && age <= 2 {
			score = addClamped(score, 5)
		}
	}
	return score
}

// v7Benchmark returns the best available SWE-bench result.
func v7Benchmark(tech *schema.TechnicalInfo) (float64, bool) {
	for _, p := range []*float64{tech.SWEBenchVerified, tech.SWEBenchLite, tech.SWEBenchFull} {
		if v, ok := benchmarkResult(p); ok {
			return v, true
		}
	}
	return 0, false
}

func v7Technical(tool schema.ToolRecord, _ Inputs) float64 {
	tech := tool.Technical()
	if tech == nil {
		return v7TechnicalBase
	}

	// Benchmarked tools start from their band and only get small capability bonuses.
	bonusScale := 1.0
	score := v7TechnicalBase
	if bench, ok := v7Benchmark(tech); ok {
		score = bandPoints(bench, v7BenchmarkBands)
		bonusScale = 0.3
	}

	if ctx, ok := schema.Num(tech.ContextWindow); ok {
		score = addClamped(score, bonusScale*bandPoints(ctx, v7ContextBands))
	}
	if schema.Flag(tech.MultiFileSupport) {
		score = addClamped(score, bonusScale*5)
	}
	if langs, ok := schema.Num(tech.LanguageCount); ok {
		score = addClamped(score, bonusScale*bandPoints(langs, []band{{min: 20, points: 5}, {min: 10, points: 3}}))
	}
	if providers, ok := schema.Num(tech.LLMProviderCount); ok {
		score = addClamped(score, bonusScale*bandPoints(providers, []band{{min: 5, points: 5}, {min: 3, points: 3}}))
	}
	if schema.Flag(tech.SubprocessSupport) {
		score = addClamped(score, bonusScale*3)
	}
	return score
}

func v7Adoption(tool schema.ToolRecord, _ Inputs) float64 {
	score := v7AdoptionBase
	if tool.Info == nil {
		return score
	}
	if m := tool.Metrics(); m != nil {
		if stars, ok := schema.Num(m.GitHubStars); ok {
			score = addClamped(score, bandPoints(stars, v7StarsBands))
		}
		if users, ok := schema.Num(m.Users); ok {
			score = addClamped(score, bandPoints(users, v7UserBands))
		}
		if news, ok := schema.Num(m.NewsMentions); ok {
			score = addClamped(score, bandPoints(news, v7NewsBands))
		}
	}
	switch normalizeCategory(tool.Category) {
	case "open-source-framework", "ide-assistant":
		score = addClamped(score, 5)
	}
	return score
}

func v7Traction(tool schema.ToolRecord, _ Inputs) float64 {
	score := v7TractionBase
	m := tool.Metrics()
	if m == nil {
		return score
	}
	if arr, ok := schema.Num(m.MonthlyARR); ok {
		score = addClamped(score, bandPoints(arr, v7RevenueBands))
	}
	if valuation, ok := schema.Num(m.Valuation); ok {
		score = addClamped(score, bandPoints(valuation, v7ValuationBands))
	}
	if funding, ok := schema.Num(m.Funding); ok {
		score = addClamped(score, bandPoints(funding, v7FundingBands))
	}
	if employees, ok := schema.Num(m.Employees); ok {
		score = addClamped(score, bandPoints(employees, []band{{min: 1000, points: 5}, {min: 100, points: 3}}))
	}
	return score
}

func v7Sentiment(tool schema.ToolRecord, in Inputs) float64 {
	score := v7SentimentBase
	if tool.Info != nil {
		if biz := tool.Business(); biz != nil {
			if schema.Flag(biz.EnterpriseTier) {
				score = addClamped(score, 5)
			}
			if schema.Flag(biz.FreeTier) {
				score = addClamped(score, 5)
			}
			if strings.EqualFold(string(biz.PricingModel), string(schema.OpenSourcePricing)) {
				score = addClamped(score, 3)
			}
		}
		text := tool.Text()
		score = addClamped(score, keywordBonus(text, v7PositiveSentiment, 2, 8))
		score = addClamped(score, -keywordBonus(text, v7NegativeSentiment, 6, 18))
		switch tool.Status {
		case schema.DeprecatedTool, schema.DiscontinuedTool:
			score = addClamped(score, -15)
		}
	}
	if impact, ok := in.Signals.NewsImpact(tool.ID); ok {
		score = addClamped(score, impact)
	}
	return score
}

func v7Velocity(tool schema.ToolRecord, in Inputs) float64 {
	if v, ok := in.Signals.Velocity(tool.ID); ok {
		return clamp(v)
	}

	score := v7VelocityBase
	if tool.Info == nil {
		return score
	}
	if updated := tool.Info.UpdatedAt; updated != nil && !in.ReferenceDate.IsZero() {
		days := in.ReferenceDate.Sub(*updated).Hours() / 24
		switch {
		case days < 0:
			// updated after the reference date; no recency signal
		case days <= 30:
			score = addClamped(score, 20)
		case days <= 90:
			score = addClamped(score, 12)
		case days <= 180:
			score = addClamped(score, 6)
		case days > 365:
			score = addClamped(score, -10)
		}
	}
	if m := tool.Metrics(); m != nil {
		if stars, ok := schema.Num(m.GitHubStars); ok && stars >= 20_000 {
			score = addClamped(score, 8)
		}
		if news, ok := schema.Num(m.NewsMentions); ok {
			score = addClamped(score, bandPoints(news, []band{{min: 50, points: 8}, {min: 10, points: 4}}))
		}
	}
	score = addClamped(score, keywordBonus(tool.Text(), v7VelocityKeywords, 3, 9))
	return score
}

func v7Resilience(tool schema.ToolRecord, in Inputs) float64 {
	score := v7ResilienceBase
	if tool.Info == nil {
		return score
	}
	if tech := tool.Technical(); tech != nil {
		if providers, ok := schema.Num(tech.LLMProviderCount); ok {
			if providers <= 1 {
				score = addClamped(score, -10)
			} else {
				score = addClamped(score, bandPoints(providers, []band{{min: 5, points: 15}, {min: 3, points: 10}, {min: 2, points: 5}}))
			}
		}
	}
	openSource := normalizeCategory(tool.Category) == "open-source-framework"
	if biz := tool.Business(); biz != nil {
		openSource = openSource || strings.EqualFold(string(biz.PricingModel), string(schema.OpenSourcePricing))
		if schema.Flag(biz.EnterpriseTier) {
			score = addClamped(score, 5)
		}
	}
	if openSource {
		score = addClamped(score, 10)
	}
	if founded := tool.Info.FoundedYear; founded != nil && !in.ReferenceDate.IsZero() {
		score = addClamped(score, bandPoints(float64(in.ReferenceDate.Year()-*founded), []band{{min: 5, points: 10}, {min: 2, points: 5}}))
	}
	if m := tool.Metrics(); m != nil {
		if employees, ok := schema.Num(m.Employees); ok {
			score = addClamped(score, bandPoints(employees, []band{{min: 500, points: 10}, {min: 50, points: 5}}))
		}
		if funding, ok := schema.Num(m.Funding); ok && funding >= 100_000_000 {
			score = addClamped(score, 5)
		}
	}
	return score
}
