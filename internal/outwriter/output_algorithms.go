package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
)

// PrintAlgorithms displays registered algorithm versions and their weights.
func PrintAlgorithms(infos []schema.AlgorithmInfo, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteAlgorithms(w, infos, cfg)
	}, "Wrote algorithms")
}

// WriteAlgorithms writes algorithm descriptions to w.
func WriteAlgorithms(w io.Writer, infos []schema.AlgorithmInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, infos)
	case schema.CSVOut:
		header := []string{"version", "scale", "precision"}
		for _, f := range schema.AllFactors {
			header = append(header, string(f))
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, info := range infos {
				row := []string{info.Version, fmt.Sprintf("%g", info.Scale), fmt.Sprintf("%d", info.Precision)}
				for _, f := range schema.AllFactors {
					row = append(row, fmt.Sprintf("%.3f", info.Weights[f]))
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeAlgorithmsText(w, infos)
	}
}

// formatWeights formats weights as a formula, skipping zero weights.
func formatWeights(weights map[schema.FactorName]float64) string {
	var parts []string
	for _, f := range schema.AllFactors {
		if w := weights[f]; w > 0 {
			parts = append(parts, fmt.Sprintf("%.3f*%s", w, f))
		}
	}
	return strings.Join(parts, " + ")
}

// writeAlgorithmsText displays algorithms in human-readable text format.
func writeAlgorithmsText(w io.Writer, infos []schema.AlgorithmInfo) error {
	if _, err := fmt.Fprintf(w, "📊 Ranking Algorithms\n=====================\n\n"); err != nil {
		return err
	}
	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%s: %s\n", info.Version, info.Description); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Scale: 0-%g, %d decimals\n", info.Scale, info.Precision); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: Score = %s\n", formatWeights(info.Weights)); err != nil {
			return err
		}
		if len(info.Features) > 0 {
			if _, err := fmt.Fprintf(w, "   Features: %s\n", strings.Join(info.Features, ", ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
