package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// factorContribution is one row of a score breakdown.
type factorContribution struct {
	Factor       schema.FactorName `json:"factor"`
	Score        float64           `json:"score"`
	Weight       float64           `json:"weight"`
	Contribution float64           `json:"contribution"`
}

// scoreBreakdown lists each factor's share of the primary score in canonical order.
func scoreBreakdown(score schema.ToolScore, info schema.AlgorithmInfo) []factorContribution {
	rows := make([]factorContribution, len(schema.AllFactors))
	for i, f := range schema.AllFactors {
		w := info.Weights[f]
		rows[i] = factorContribution{
			Factor:       f,
			Score:        score.FactorScores[f],
			Weight:       w,
			Contribution: score.FactorScores[f] * w,
		}
	}
	return rows
}

// PrintToolScore outputs a single tool score, dispatching on the configured format.
func PrintToolScore(score schema.ToolScore, info schema.AlgorithmInfo, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteToolScore(w, score, info, cfg)
	}, "Wrote score")
}

// WriteToolScore writes a single tool score to w.
func WriteToolScore(w io.Writer, score schema.ToolScore, info schema.AlgorithmInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		type jsonScore struct {
			schema.ToolScore
			Label     string               `json:"label"`
			Breakdown []factorContribution `json:"breakdown"`
		}
		return writeJSON(w, jsonScore{
			ToolScore: score,
			Label:     schema.GetTierLabel(score.OverallScore, info.Scale),
			Breakdown: scoreBreakdown(score, info),
		})
	case schema.CSVOut:
		fmtFloat := createFormatters(info.Precision)
		return writeCSVWithHeader(w, []string{"tool_id", "factor", "score", "weight", "contribution"}, func(cw *csv.Writer) error {
			for _, r := range scoreBreakdown(score, info) {
				if err := cw.Write([]string{score.ToolID, string(r.Factor), fmtFloat(r.Score), fmtFloat(r.Weight), fmtFloat(r.Contribution)}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeToolScoreText(w, score, info, cfg)
	}
}

// writeToolScoreText prints the headline numbers and, with --explain, the factor table.
func writeToolScoreText(w io.Writer, score schema.ToolScore, info schema.AlgorithmInfo, cfg *contract.Config) error {
	fmtFloat := createFormatters(info.Precision)

	if _, err := fmt.Fprintf(w, "%s (%s) under %s\n", score.ToolName, score.ToolID, score.AlgorithmVersion); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall: %s [%s]\n", fmtFloat(score.OverallScore), tierLabel(score.OverallScore, info.Scale, cfg.UseColors)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Primary: %s\n", fmtFloat(score.PrimaryScore)); err != nil {
		return err
	}

	if !cfg.Explain && !cfg.Detail {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Factor", "Score", "Weight", "Contribution"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, r := range scoreBreakdown(score, info) {
		data = append(data, []string{string(r.Factor), fmtFloat(r.Score), fmt.Sprintf("%.3f", r.Weight), fmtFloat(r.Contribution)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	tb := score.Tiebreakers
	if _, err := fmt.Fprintf(w, "Tiebreakers: features %.1f, description %.1f, pricing %.1f, name %.1f\n",
		tb.FeatureCount, tb.DescriptionQuality, tb.PricingTier, tb.Alphabetical); err != nil {
		return err
	}
	for _, warning := range score.Warnings {
		if _, err := fmt.Fprintf(w, "Warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
