package algo

import (
	"math"
	"strings"

	"github.com/aipowerranking/toolrank/schema"
)

// Score bounds for every factor and tiebreaker.
const (
	minScore = 0.0
	maxScore = 100.0
)

// band is a named breakpoint in a monotonic step function.
// Bands are listed from the highest threshold down.
type band struct {
	min    float64
	points float64
}

// clamp bounds v to [0, 100]. NaN collapses to 0 so it can never reach the aggregate.
func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return minScore
	case v < minScore:
		return minScore
	case v > maxScore:
		return maxScore
	default:
		return v
	}
}

// addClamped applies one additive step and clamps the running total.
func addClamped(score, delta float64) float64 {
	return clamp(score + delta)
}

// bandPoints returns the points of the first band whose threshold v reaches, or 0.
func bandPoints(v float64, bands []band) float64 {
	for _, b := range bands {
		if v >= b.min {
			return b.points
		}
	}
	return 0
}

// benchmarkResult unwraps a SWE-bench percentage. Negative results are malformed
// and count as absent so the scorer keeps its base score.
func benchmarkResult(p *float64) (float64, bool) {
	v, ok := schema.Num(p)
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

// countKeywords counts how many keywords occur in text at least once.
func countKeywords(text string, keywords []string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// keywordBonus awards perMatch points per matched keyword, capped at limit.
func keywordBonus(text string, keywords []string, perMatch, limit float64) float64 {
	return math.Min(float64(countKeywords(text, keywords))*perMatch, limit)
}

// normalizeCategory lower-cases a category and folds separators to hyphens.
func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	return strings.NewReplacer("_", "-", " ", "-").Replace(c)
}
