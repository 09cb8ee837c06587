package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintComparisonReport outputs a snapshot comparison, dispatching on the configured format.
func PrintComparisonReport(report schema.ComparisonReport, precision int32, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonReport(w, report, precision, cfg)
	}, "Wrote comparison")
}

// WriteComparisonReport writes a snapshot comparison to w.
func WriteComparisonReport(w io.Writer, report schema.ComparisonReport, precision int32, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, report)
	case schema.CSVOut:
		return writeComparisonCSV(w, report, precision)
	default:
		return writeComparisonTable(w, report, precision, cfg)
	}
}

// optInt formats an optional position.
func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// optFloat formats an optional score.
func optFloat(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// writeComparisonCSV writes one row per compared tool.
func writeComparisonCSV(w io.Writer, report schema.ComparisonReport, precision int32) error {
	fmtFloat := createFormatters(precision)
	header := []string{"tool_id", "tool_name", "previous_position", "new_position", "position_change", "previous_score", "new_score", "score_change", "movement"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range report.Entries {
			row := []string{
				e.ToolID,
				e.ToolName,
				optInt(e.PreviousPosition),
				optInt(e.NewPosition),
				strconv.Itoa(e.PositionChange),
				optFloat(e.PreviousScore, fmtFloat),
				optFloat(e.NewScore, fmtFloat),
				fmtFloat(e.ScoreChange),
				string(e.Movement),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeComparisonTable writes the comparison in a human-readable table.
func writeComparisonTable(w io.Writer, report schema.ComparisonReport, precision int32, cfg *contract.Config) error {
	fmtFloat := createFormatters(precision)
	nameWidth := GetMaxTableNameWidth(cfg)

	title := fmt.Sprintf("Comparing %s with %s", report.CurrentPeriod, report.PreviousPeriod)
	if report.NoPriorData {
		title = fmt.Sprintf("No snapshot before %s; every tool is new", report.CurrentPeriod)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tool", "Before", "After", "Move", "Score", "Δ Score"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	limit := len(report.Entries)
	if cfg.ResultLimit > 0 && cfg.ResultLimit < limit {
		limit = cfg.ResultLimit
	}
	var data [][]string
	for _, e := range report.Entries[:limit] {
		delta := fmtFloat(e.ScoreChange)
		if e.ScoreChange > 0 {
			delta = "+" + delta
		}
		data = append(data, []string{
			contract.TruncateText(e.ToolName, nameWidth),
			optInt(e.PreviousPosition),
			optInt(e.NewPosition),
			movementLabel(e, cfg.UseColors),
			optFloat(e.NewScore, fmtFloat),
			delta,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	return writeComparisonSummary(w, report.Summary, fmtFloat)
}

// writeComparisonSummary prints counts, score statistics and the top movers.
func writeComparisonSummary(w io.Writer, s schema.ComparisonSummary, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Tools: %d (up %d, down %d, same %d, new %d, dropped %d)\n",
		s.TotalTools, s.Counts[schema.MovementUp], s.Counts[schema.MovementDown], s.Counts[schema.MovementSame],
		s.Counts[schema.MovementNew], s.Counts[schema.MovementDropped]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scores: avg %s, min %s, max %s, avg change %s\n",
		fmtFloat(s.AverageScore), fmtFloat(s.MinScore), fmtFloat(s.MaxScore), fmtFloat(s.AverageScoreChange)); err != nil {
		return err
	}
	for _, group := range []struct {
		title   string
		entries []schema.ComparisonEntry
	}{
		{"Biggest gainers", s.BiggestGainers},
		{"Biggest losers", s.BiggestLosers},
	} {
		if len(group.entries) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", group.title); err != nil {
			return err
		}
		for _, e := range group.entries {
			if _, err := fmt.Fprintf(w, "  %s %+d (%s -> %s)\n", e.ToolName, e.PositionChange, optInt(e.PreviousPosition), optInt(e.NewPosition)); err != nil {
				return err
			}
		}
	}
	return nil
}
