package core

import (
	"sort"
	"strings"

	"github.com/aipowerranking/toolrank/schema"
)

// sortScores orders scores into the ranking's total order: overall score,
// then primary score, then each tiebreaker in significance order (all
// descending), then name and id ascending.
func sortScores(scores []schema.ToolScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scoreLess(scores[i], scores[j])
	})
}

// scoreLess reports whether a ranks above b.
func scoreLess(a, b schema.ToolScore) bool {
	if a.OverallScore != b.OverallScore {
		return a.OverallScore > b.OverallScore
	}
	if a.PrimaryScore != b.PrimaryScore {
		return a.PrimaryScore > b.PrimaryScore
	}
	at, bt := a.Tiebreakers.Values(), b.Tiebreakers.Values()
	for k := range at {
		if at[k] != bt[k] {
			return at[k] > bt[k]
		}
	}
	if c := strings.Compare(strings.ToLower(a.ToolName), strings.ToLower(b.ToolName)); c != 0 {
		return c < 0
	}
	return a.ToolID < b.ToolID
}

// sortFailures orders scoring errors by tool id so reruns report identically.
func sortFailures(failures []schema.ScoringError) {
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].ToolID < failures[j].ToolID
	})
}

// RankEntries returns the top 'limit' entries of a snapshot. A limit of zero
// or less returns every entry.
func RankEntries(entries []schema.RankingEntry, limit int) []schema.RankingEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
