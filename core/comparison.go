package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/shopspring/decimal"
)

// CompareSnapshots diffs a new snapshot against a previous one. A nil previous
// snapshot is an initial ranking: every entry is new and NoPriorData is set.
// Entries follow the current snapshot's order, then dropped tools by their
// previous position. topN bounds the gainer and loser lists (default 5).
func CompareSnapshots(current, previous *schema.RankingSnapshot, topN int) (schema.ComparisonReport, error) {
	if current == nil {
		return schema.ComparisonReport{}, errors.New("current snapshot is required")
	}
	if topN <= 0 {
		topN = contract.DefaultTopMovers
	}
	if err := checkUniqueTools(current); err != nil {
		return schema.ComparisonReport{}, err
	}

	report := schema.ComparisonReport{CurrentPeriod: current.Period}

	var prevMap map[string]schema.RankingEntry
	var prevEntries []schema.RankingEntry
	if previous == nil {
		report.NoPriorData = true
	} else {
		if err := checkUniqueTools(previous); err != nil {
			return schema.ComparisonReport{}, err
		}
		report.PreviousPeriod = previous.Period
		prevMap = schema.EntryByID(previous.Entries)
		prevEntries = previous.Entries
	}

	entries := make([]schema.ComparisonEntry, 0, len(current.Entries)+len(prevEntries))
	seen := make(map[string]struct{}, len(current.Entries))

	// 1. One entry per current tool, in current order
	for _, cur := range current.Entries {
		seen[cur.ToolID] = struct{}{}
		prev, existed := prevMap[cur.ToolID]
		entries = append(entries, compareEntry(cur, prev, existed))
	}

	// 2. Synthetic dropped entries, in previous order
	dropped := make([]schema.RankingEntry, 0)
	for _, prev := range prevEntries {
		if _, ok := seen[prev.ToolID]; !ok {
			dropped = append(dropped, prev)
		}
	}
	sort.SliceStable(dropped, func(i, j int) bool {
		return dropped[i].Position < dropped[j].Position
	})
	for _, prev := range dropped {
		entries = append(entries, schema.ComparisonEntry{
			ToolID:           prev.ToolID,
			ToolName:         prev.ToolName,
			PreviousPosition: schema.PositionOf(prev.Position),
			PreviousScore:    scoreOf(prev.Score),
			Movement:         schema.MovementDropped,
		})
	}

	report.Entries = entries
	report.Summary = summarize(current, entries, topN)
	return report, nil
}

// compareEntry classifies one current entry against its previous entry, if any.
func compareEntry(cur, prev schema.RankingEntry, existed bool) schema.ComparisonEntry {
	entry := schema.ComparisonEntry{
		ToolID:      cur.ToolID,
		ToolName:    cur.ToolName,
		NewPosition: schema.PositionOf(cur.Position),
		NewScore:    scoreOf(cur.Score),
	}
	if !existed {
		entry.Movement = schema.MovementNew
		return entry
	}

	entry.PreviousPosition = schema.PositionOf(prev.Position)
	entry.PreviousScore = scoreOf(prev.Score)
	entry.PositionChange = prev.Position - cur.Position
	entry.ScoreChange = scoreDelta(cur.Score, prev.Score)
	entry.Movement = determineMovement(entry.PositionChange)
	return entry
}

// determineMovement returns the movement for a position change of a tool present in both snapshots.
func determineMovement(positionChange int) schema.Movement {
	switch {
	case positionChange > 0:
		return schema.MovementUp
	case positionChange < 0:
		return schema.MovementDown
	default:
		return schema.MovementSame
	}
}

// summarize computes the aggregate statistics of a comparison.
func summarize(current *schema.RankingSnapshot, entries []schema.ComparisonEntry, topN int) schema.ComparisonSummary {
	summary := schema.ComparisonSummary{
		TotalTools:     len(entries),
		Counts:         make(map[schema.Movement]int, len(schema.AllMovements)),
		BiggestGainers: []schema.ComparisonEntry{},
		BiggestLosers:  []schema.ComparisonEntry{},
	}
	for _, m := range schema.AllMovements {
		summary.Counts[m] = 0
	}

	if n := len(current.Entries); n > 0 {
		total := decimal.Zero
		summary.MinScore = current.Entries[0].Score
		summary.MaxScore = current.Entries[0].Score
		for _, e := range current.Entries {
			total = total.Add(decimal.NewFromFloat(e.Score))
			summary.MinScore = min(summary.MinScore, e.Score)
			summary.MaxScore = max(summary.MaxScore, e.Score)
		}
		summary.AverageScore = total.Div(decimal.NewFromInt(int64(n))).Round(6).InexactFloat64()
	}

	var gainers, losers []schema.ComparisonEntry
	changeTotal := decimal.Zero
	matched := 0
	for _, e := range entries {
		summary.Counts[e.Movement]++
		switch e.Movement {
		case schema.MovementUp:
			gainers = append(gainers, e)
		case schema.MovementDown:
			losers = append(losers, e)
		}
		if e.PreviousPosition != nil && e.NewPosition != nil {
			changeTotal = changeTotal.Add(decimal.NewFromFloat(e.ScoreChange))
			matched++
		}
	}
	if matched > 0 {
		summary.AverageScoreChange = changeTotal.Div(decimal.NewFromInt(int64(matched))).Round(6).InexactFloat64()
	}

	sortMovers(gainers, true)
	sortMovers(losers, false)
	if len(gainers) > topN {
		gainers = gainers[:topN]
	}
	if len(losers) > topN {
		losers = losers[:topN]
	}
	summary.BiggestGainers = append(summary.BiggestGainers, gainers...)
	summary.BiggestLosers = append(summary.BiggestLosers, losers...)
	return summary
}

// sortMovers sorts movers by absolute position change, then absolute score change
// (both descending), then by new position.
func sortMovers(movers []schema.ComparisonEntry, gainers bool) {
	sign := 1
	if !gainers {
		sign = -1
	}
	sort.SliceStable(movers, func(i, j int) bool {
		a, b := movers[i], movers[j]
		if a.PositionChange != b.PositionChange {
			return sign*a.PositionChange > sign*b.PositionChange
		}
		if a.ScoreChange != b.ScoreChange {
			return float64(sign)*a.ScoreChange > float64(sign)*b.ScoreChange
		}
		return *a.NewPosition < *b.NewPosition
	})
}

// checkUniqueTools rejects snapshots that list a tool twice.
func checkUniqueTools(s *schema.RankingSnapshot) error {
	seen := make(map[string]struct{}, len(s.Entries))
	for _, e := range s.Entries {
		if _, dup := seen[e.ToolID]; dup {
			return fmt.Errorf("snapshot %s lists tool %s more than once", s.Period, e.ToolID)
		}
		seen[e.ToolID] = struct{}{}
	}
	return nil
}

// scoreDelta returns cur - prev without binary floating-point noise.
func scoreDelta(cur, prev float64) float64 {
	return decimal.NewFromFloat(cur).Sub(decimal.NewFromFloat(prev)).InexactFloat64()
}

func scoreOf(v float64) *float64 {
	return &v
}

// ResolvePrevious selects the snapshot to compare a run for period against.
// A missing snapshot or store yields nil without error; the comparison then
// runs in initial-ranking mode.
func ResolvePrevious(store contract.SnapshotStore, period string, policy schema.ComparePolicy, explicitPeriod string) (*schema.RankingSnapshot, error) {
	if store == nil || policy == schema.CompareNone {
		return nil, nil
	}

	var (
		prev *schema.RankingSnapshot
		err  error
	)
	switch policy {
	case schema.CompareExplicit:
		if explicitPeriod == period {
			return nil, fmt.Errorf("cannot compare period %s with itself", period)
		}
		prev, err = store.GetSnapshot(explicitPeriod)
	case schema.CompareAuto, "":
		prev, err = store.LatestBefore(period)
	default:
		return nil, fmt.Errorf("unknown compare policy %q", policy)
	}

	if errors.Is(err, contract.ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load previous snapshot: %w", err)
	}
	return prev, nil
}
