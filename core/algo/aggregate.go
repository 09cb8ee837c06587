package algo

import (
	"errors"
	"fmt"
	"math"

	"github.com/aipowerranking/toolrank/schema"
	"github.com/shopspring/decimal"
)

// ErrFactorOutOfRange is returned in strict mode when a scorer produced a value outside [0, 100].
var ErrFactorOutOfRange = errors.New("factor score out of range")

// Aggregate combines factor scores and tiebreakers. It returns the unrounded
// primary weighted sum (0-100) and the overall score in the version's scale and precision.
// The overall score is not clamped: it may exceed Scale by the scaled
// MaxTiebreakAdjustment so that tiebreakers still separate perfect scores.
func (a *Algorithm) Aggregate(factors schema.FactorScores, tiebreakers schema.Tiebreakers) (primary, overall float64) {
	for _, f := range schema.AllFactors {
		primary += a.Weights[f] * factors[f]
	}

	adjustment := 0.0
	for i, v := range tiebreakers.Values() {
		adjustment += a.Tiebreak[i] * v
	}

	scaled := (primary + adjustment) * a.Scale / maxScore
	return primary, roundTo(scaled, a.Precision)
}

// roundTo rounds half away from zero at the given number of decimal places.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// validateFactors checks that all eight factors are present and in range.
// Strict mode fails on the first problem; otherwise values are clamped and
// a warning is returned for each.
func validateFactors(factors schema.FactorScores, strict bool) ([]string, error) {
	var warnings []string
	for _, f := range schema.AllFactors {
		v, ok := factors[f]
		if !ok {
			return nil, fmt.Errorf("missing factor %s", f)
		}
		if !math.IsNaN(v) && v >= minScore && v <= maxScore {
			continue
		}
		if strict {
			return nil, fmt.Errorf("%w: %s = %v", ErrFactorOutOfRange, f, v)
		}
		factors[f] = clamp(v)
		warnings = append(warnings, fmt.Sprintf("%s out of range (%v), clamped to %v", f, v, factors[f]))
	}
	return warnings, nil
}
