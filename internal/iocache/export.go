package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/parquet"
	"github.com/dustin/go-humanize"
)

// ExportSnapshots writes every stored snapshot to two Parquet files:
// <outputFile>.snapshots.parquet and <outputFile>.entries.parquet.
// Progress goes to w.
func ExportSnapshots(store contract.SnapshotStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("snapshot store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot status: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return errors.New("no snapshots found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total snapshots: %s\n", humanize.Comma(int64(status.TotalSnapshots)))
	_, _ = fmt.Fprintf(w, "Total entries: %s\n", humanize.Comma(int64(status.TotalEntries)))

	summaries, err := store.ListSnapshots()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	var rows []parquet.RankingRow
	for _, summary := range summaries {
		snapshot, err := store.GetSnapshot(summary.Period)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %s: %w", summary.Period, err)
		}
		rows = append(rows, parquet.ConvertSnapshot(*snapshot)...)
	}

	runs := parquet.ConvertSnapshotSummaries(summaries)
	runsFile := outputFile + ".snapshots.parquet"
	if err := parquet.WriteSnapshotRunsParquet(runs, runsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d snapshots to: %s\n", len(runs), runsFile)

	entriesFile := outputFile + ".entries.parquet"
	if err := parquet.WriteRankingRowsParquet(rows, entriesFile); err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking entries to: %s\n", len(rows), entriesFile)

	return nil
}
