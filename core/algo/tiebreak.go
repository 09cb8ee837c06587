package algo

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/aipowerranking/toolrank/schema"
)

// Tiebreaker tuning.
const (
	pointsPerFeature   = 5.0
	maxLengthPoints    = 60.0
	charsPerLengthPt   = 10.0
	pointsPerDomainKw  = 4.0
	maxDomainKwPoints  = 40.0
	alphabeticalLength = 4 // letters that contribute to the alphabetical key
	alphabetBase       = 27.0
)

// domainKeywords measure how much of a description is about software work.
var domainKeywords = []string{
	"code", "coding", "developer", "agent", "ide", "test", "review",
	"refactor", "debug", "deploy", "repository", "terminal",
}

// pricingModelPoints rank how strong a pricing model signals commercial maturity.
var pricingModelPoints = map[schema.PricingModel]float64{
	schema.EnterprisePricing:   40,
	schema.SubscriptionPricing: 30,
	schema.UsagePricing:        25,
	schema.FreemiumPricing:     20,
	schema.OpenSourcePricing:   15,
	schema.FreePricing:         10,
}

// priceBands convert a monthly base price to points.
var priceBands = []band{
	{min: 100, points: 30},
	{min: 40, points: 22},
	{min: 20, points: 15},
	{min: 0.01, points: 8},
}

// CalculateTiebreakers derives the four secondary ordering signals for a tool.
// They only order tools whose primary scores collide.
func CalculateTiebreakers(tool schema.ToolRecord) schema.Tiebreakers {
	return schema.Tiebreakers{
		FeatureCount:       featureCountSignal(tool),
		DescriptionQuality: descriptionQualitySignal(tool),
		PricingTier:        pricingTierSignal(tool),
		Alphabetical:       alphabeticalSignal(tool.DisplayName()),
	}
}

func featureCountSignal(tool schema.ToolRecord) float64 {
	return clamp(float64(tool.FeatureCount()) * pointsPerFeature)
}

func descriptionQualitySignal(tool schema.ToolRecord) float64 {
	if tool.Info == nil {
		return 0
	}
	text := strings.ToLower(tool.Info.Description + " " + tool.Info.Summary)
	length := float64(utf8.RuneCountInString(strings.TrimSpace(text)))
	score := math.Min(length/charsPerLengthPt, maxLengthPoints)
	score = addClamped(score, keywordBonus(text, domainKeywords, pointsPerDomainKw, maxDomainKwPoints))
	return score
}

func pricingTierSignal(tool schema.ToolRecord) float64 {
	biz := tool.Business()
	if biz == nil {
		return 0
	}
	score := pricingModelPoints[schema.PricingModel(strings.ToLower(string(biz.PricingModel)))]
	if price, ok := schema.Num(biz.BasePrice); ok {
		score = addClamped(score, bandPoints(price, priceBands))
	}
	if schema.Flag(biz.EnterpriseTier) {
		score = addClamped(score, 20)
	}
	if schema.Flag(biz.FreeTier) {
		score = addClamped(score, 10)
	}
	return score
}

// alphabeticalSignal maps a name to (0, 100] so that names earlier in the
// alphabet score higher. Only the first letters a-z count; anything else is 0.
func alphabeticalSignal(name string) float64 {
	position := 0.0
	scale := 1.0
	count := 0
	for _, r := range strings.ToLower(name) {
		if count == alphabeticalLength {
			break
		}
		var v float64
		if r >= 'a' && r <= 'z' {
			v = float64(r-'a') + 1
		}
		scale /= alphabetBase
		position += v * scale
		count++
	}
	return clamp(maxScore * (1 - position))
}
