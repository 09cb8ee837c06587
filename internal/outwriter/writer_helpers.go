// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the float formatter used across output types.
func createFormatters(precision int32) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// factorHeaders returns short column headers for the eight factors.
func factorHeaders() []string {
	headers := make([]string, len(schema.AllFactors))
	for i, f := range schema.AllFactors {
		headers[i] = factorAbbrev(f)
	}
	return headers
}

// factorAbbrev shortens a factor name for table headers, e.g. agentic_capability -> Agentic.
func factorAbbrev(f schema.FactorName) string {
	word, _, _ := strings.Cut(string(f), "_")
	return strings.ToUpper(word[:1]) + word[1:]
}

// factorColumns returns the factor scores in canonical order.
func factorColumns(scores schema.FactorScores, fmtFloat func(float64) string) []string {
	cols := make([]string, len(schema.AllFactors))
	for i, f := range schema.AllFactors {
		cols[i] = fmtFloat(scores[f])
	}
	return cols
}

// tierLabel returns the tier label, colored when the config allows it.
func tierLabel(score, scale float64, useColors bool) string {
	label := schema.GetTierLabel(score, scale)
	if useColors {
		return contract.GetColorLabel(label)
	}
	return label
}

// movementLabel returns the movement marker, colored when the config allows it.
func movementLabel(e schema.ComparisonEntry, useColors bool) string {
	if useColors {
		return contract.GetColorMovement(e.Movement, e.PositionChange)
	}
	return contract.GetPlainMovement(e.Movement, e.PositionChange)
}
