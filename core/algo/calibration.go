package algo

import (
	"strings"

	"github.com/aipowerranking/toolrank/schema"
)

// Bounds is a calibration floor and/or ceiling for one factor.
type Bounds struct {
	Min *float64
	Max *float64
}

// CalibrationOverride pins factor bounds for tools whose name contains Pattern
// (case-insensitive). Overrides are scoped to one algorithm version.
type CalibrationOverride struct {
	Pattern string
	Bounds  map[schema.FactorName]Bounds
}

// floor and ceil keep override tables readable.
func floor(v float64) Bounds { return Bounds{Min: &v} }

func ceil(v float64) Bounds { return Bounds{Max: &v} }

// matches reports whether the override applies to the tool.
func (o CalibrationOverride) matches(tool schema.ToolRecord) bool {
	if o.Pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(tool.DisplayName()), strings.ToLower(o.Pattern))
}

// applyOverrides applies every matching override in table order, then clamps.
// The input map is not modified.
func applyOverrides(overrides []CalibrationOverride, tool schema.ToolRecord, factors schema.FactorScores) schema.FactorScores {
	out := factors.Clone()
	for _, o := range overrides {
		if !o.matches(tool) {
			continue
		}
		for _, f := range schema.AllFactors {
			b, ok := o.Bounds[f]
			if !ok {
				continue
			}
			v := out[f]
			if b.Min != nil && v < *b.Min {
				v = *b.Min
			}
			if b.Max != nil && v > *b.Max {
				v = *b.Max
			}
			out[f] = clamp(v)
		}
	}
	return out
}
