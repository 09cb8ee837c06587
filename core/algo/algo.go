// Package algo holds the versioned scoring algorithms: factor scorers,
// tiebreakers, the weighted aggregator and the registry that selects them.
package algo

import (
	"fmt"
	"time"

	"github.com/aipowerranking/toolrank/schema"
)

// Inputs are the per-run values a scorer may read besides the tool itself.
type Inputs struct {
	ReferenceDate time.Time
	Signals       *Signals
}

// Scorer computes one factor for one tool. Scorers are pure: the same tool and
// inputs always give the same value, and the value lies in [0, 100].
type Scorer func(tool schema.ToolRecord, in Inputs) float64

// Algorithm is one immutable, versioned scoring bundle.
type Algorithm struct {
	Version     string
	Description string
	Features    []string
	Weights     map[schema.FactorName]float64
	Scorers     map[schema.FactorName]Scorer
	Scale       float64    // 100 or 10
	Precision   int32      // decimal places of the overall score
	Tiebreak    [4]float64 // multipliers at the 0-100 scale, strictly decreasing
	Overrides   []CalibrationOverride
}

// Info returns the introspection view of the algorithm.
func (a *Algorithm) Info() schema.AlgorithmInfo {
	weights := make(map[schema.FactorName]float64, len(a.Weights))
	for k, v := range a.Weights {
		weights[k] = v
	}
	return schema.AlgorithmInfo{
		Version:     a.Version,
		Description: a.Description,
		Weights:     weights,
		Features:    append([]string(nil), a.Features...),
		Scale:       a.Scale,
		Precision:   a.Precision,
	}
}

// ComputeFactors runs all eight scorers and then the calibration overrides.
func (a *Algorithm) ComputeFactors(tool schema.ToolRecord, in Inputs) schema.FactorScores {
	factors := make(schema.FactorScores, len(schema.AllFactors))
	for _, f := range schema.AllFactors {
		factors[f] = a.Scorers[f](tool, in)
	}
	return applyOverrides(a.Overrides, tool, factors)
}

// Score computes the full ToolScore for one tool. In strict mode an out-of-range
// factor is an error; otherwise it is clamped and reported in Warnings.
func (a *Algorithm) Score(tool schema.ToolRecord, in Inputs, strict bool) (schema.ToolScore, error) {
	factors := a.ComputeFactors(tool, in)
	warnings, err := validateFactors(factors, strict)
	if err != nil {
		return schema.ToolScore{}, fmt.Errorf("tool %s under %s: %w", tool.ID, a.Version, err)
	}

	tiebreakers := CalculateTiebreakers(tool)
	primary, overall := a.Aggregate(factors, tiebreakers)

	return schema.ToolScore{
		ToolID:           tool.ID,
		ToolName:         tool.DisplayName(),
		OverallScore:     overall,
		PrimaryScore:     primary,
		FactorScores:     factors,
		Tiebreakers:      tiebreakers,
		AlgorithmVersion: a.Version,
		Warnings:         warnings,
	}, nil
}

// MaxTiebreakAdjustment is the largest possible tiebreaker contribution at the 0-100 scale.
func (a *Algorithm) MaxTiebreakAdjustment() float64 {
	total := 0.0
	for _, m := range a.Tiebreak {
		total += m * maxScore
	}
	return total
}
