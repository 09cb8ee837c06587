package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// PrintSnapshotList displays stored snapshot summaries.
func PrintSnapshotList(summaries []schema.SnapshotSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSnapshotList(w, summaries, cfg)
	}, "Wrote snapshot list")
}

// WriteSnapshotList writes stored snapshot summaries to w.
func WriteSnapshotList(w io.Writer, summaries []schema.SnapshotSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if summaries == nil {
			summaries = []schema.SnapshotSummary{}
		}
		return writeJSON(w, summaries)
	case schema.CSVOut:
		header := []string{"period", "snapshot_id", "algorithm_version", "generated_at", "entry_count", "stored_at"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, s := range summaries {
				row := []string{
					s.Period,
					s.ID,
					s.AlgorithmVersion,
					s.GeneratedAt.Format(schema.DayLayout),
					strconv.Itoa(s.EntryCount),
					s.StoredAt.Format("2006-01-02T15:04:05Z07:00"),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if len(summaries) == 0 {
			_, err := fmt.Fprintln(w, "No snapshots stored")
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Period", "Algorithm", "Tools", "Generated", "Stored"})
		var data [][]string
		for _, s := range summaries {
			data = append(data, []string{
				s.Period,
				s.AlgorithmVersion,
				strconv.Itoa(s.EntryCount),
				s.GeneratedAt.Format(schema.DayLayout),
				humanize.Time(s.StoredAt),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
}
