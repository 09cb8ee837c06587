package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/parquet"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRankingResults outputs a ranking run, dispatching on the configured format.
func PrintRankingResults(out schema.RankingOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingJSON(w, out)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, out)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeRankingParquet(out, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(w, out, cfg, duration)
		}, "Wrote table")
	}
}

// WriteRankingResults writes a ranking run to w. Parquet is not supported here
// because it needs a seekable file.
func WriteRankingResults(w io.Writer, out schema.RankingOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeRankingJSON(w, out)
	case schema.CSVOut:
		return writeRankingCSV(w, out)
	case schema.ParquetOut:
		return errors.New("parquet output requires --output-file")
	default:
		return writeRankingTable(w, out, cfg, duration)
	}
}

// jsonRankingEntry is a ranking entry with presentation fields.
type jsonRankingEntry struct {
	Label          string          `json:"label"`
	Movement       schema.Movement `json:"movement,omitempty"`
	PositionChange *int            `json:"position_change,omitempty"`
	schema.RankingEntry
}

// writeRankingJSON writes the ranking with tier labels and movements.
func writeRankingJSON(w io.Writer, out schema.RankingOutput) error {
	type jsonRanking struct {
		schema.RankingOutput
		Entries []jsonRankingEntry `json:"entries"`
	}

	moves := out.Movements()
	entries := make([]jsonRankingEntry, len(out.Entries))
	for i, e := range out.Entries {
		entries[i] = jsonRankingEntry{
			Label:        schema.GetTierLabel(e.Score, out.Scale),
			RankingEntry: e,
		}
		if m, ok := moves[e.ToolID]; ok {
			entries[i].Movement = m.Movement
			entries[i].PositionChange = schema.PositionOf(m.PositionChange)
		}
	}
	if out.Errors == nil {
		out.Errors = []schema.ScoringError{}
	}
	return writeJSON(w, jsonRanking{RankingOutput: out, Entries: entries})
}

// writeRankingCSV writes one row per ranked tool with every factor score.
func writeRankingCSV(w io.Writer, out schema.RankingOutput) error {
	fmtFloat := createFormatters(out.Precision)
	header := []string{"rank", "tool_id", "tool_name", "score", "label", "movement", "position_change"}
	for _, f := range schema.AllFactors {
		header = append(header, string(f))
	}

	moves := out.Movements()
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range out.Entries {
			var movement, change string
			if m, ok := moves[e.ToolID]; ok {
				movement = string(m.Movement)
				change = strconv.Itoa(m.PositionChange)
			}
			row := []string{
				strconv.Itoa(e.Position),
				e.ToolID,
				e.ToolName,
				fmtFloat(e.Score),
				schema.GetTierLabel(e.Score, out.Scale),
				movement,
				change,
			}
			row = append(row, factorColumns(e.FactorScores, fmtFloat)...)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRankingParquet writes the ranked entries as Parquet rows.
func writeRankingParquet(out schema.RankingOutput, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	rows := parquet.ConvertSnapshot(schema.RankingSnapshot{
		ID:               out.SnapshotID,
		Period:           out.Period,
		AlgorithmVersion: out.AlgorithmVersion,
		GeneratedAt:      out.GeneratedAt,
		Entries:          out.Entries,
	})
	if err := parquet.WriteRankingRowsParquet(rows, outputFile); err != nil {
		return err
	}
	l := contract.Logger()
	l.Info().Str("file", outputFile).Int("rows", len(rows)).Msg("wrote parquet")
	return nil
}

// writeRankingTable generates and writes the human-readable table.
func writeRankingTable(w io.Writer, out schema.RankingOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(out.Precision)
	moves := out.Movements()
	nameWidth := GetMaxTableNameWidth(cfg)

	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Rank", "Tool", "Score", "Tier"}
	if moves != nil {
		headers = append(headers, "Move")
	}
	if cfg.Detail {
		headers = append(headers, factorHeaders()...)
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	data := make([][]string, 0, len(out.Entries))
	for _, e := range out.Entries {
		row := []string{
			strconv.Itoa(e.Position),
			contract.TruncateText(e.ToolName, nameWidth),
			fmtFloat(e.Score),
			tierLabel(e.Score, out.Scale, cfg.UseColors),
		}
		if moves != nil {
			move := "NEW"
			if m, ok := moves[e.ToolID]; ok {
				move = movementLabel(m, cfg.UseColors)
			}
			row = append(row, move)
		}
		if cfg.Detail {
			row = append(row, factorColumns(e.FactorScores, fmtFloat)...)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	return writeRankingFooter(w, out, cfg, duration)
}

// writeRankingFooter prints the run summary below the table.
func writeRankingFooter(w io.Writer, out schema.RankingOutput, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Showing top %d of %s tools for %s (algorithm %s)\n",
		len(out.Entries), humanize.Comma(int64(out.TotalRanked)), out.Period, out.AlgorithmVersion); err != nil {
		return err
	}

	if c := out.Comparison; c != nil {
		if c.NoPriorData {
			if _, err := fmt.Fprintln(w, "No previous snapshot to compare against"); err != nil {
				return err
			}
		} else {
			counts := c.Summary.Counts
			if _, err := fmt.Fprintf(w, "Compared with %s: %d up, %d down, %d same, %d new, %d dropped\n",
				c.PreviousPeriod,
				counts[schema.MovementUp], counts[schema.MovementDown], counts[schema.MovementSame],
				counts[schema.MovementNew], counts[schema.MovementDropped]); err != nil {
				return err
			}
		}
	}

	if len(out.Skipped) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped %d inactive tools\n", len(out.Skipped)); err != nil {
			return err
		}
	}
	if len(out.Errors) > 0 {
		if _, err := fmt.Fprintf(w, "Failed to score %d tools:\n", len(out.Errors)); err != nil {
			return err
		}
		for _, e := range out.Errors {
			if _, err := fmt.Fprintf(w, "  - %s: %s\n", e.ToolID, e.Error); err != nil {
				return err
			}
		}
	}

	persisted := "not persisted"
	if out.Persisted {
		persisted = "persisted to " + string(cfg.StoreBackend)
	}
	_, err := fmt.Fprintf(w, "Ranked in %v with %d workers, snapshot %s\n", duration.Round(time.Millisecond), cfg.Workers, persisted)
	return err
}
