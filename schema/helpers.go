package schema

import (
	"fmt"
	"strings"
	"time"
)

// Period layouts. Monthly periods are the default; daily periods are used
// for ad-hoc runs within a month.
const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
)

// PeriodOf returns the monthly period label for a reference date.
func PeriodOf(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// ValidatePeriod checks that p is a YYYY-MM or YYYY-MM-DD label.
func ValidatePeriod(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return fmt.Errorf("period cannot be empty")
	}
	if _, err := time.Parse(MonthLayout, p); err == nil {
		return nil
	}
	if _, err := time.Parse(DayLayout, p); err == nil {
		return nil
	}
	return fmt.Errorf("invalid period %q: expected YYYY-MM or YYYY-MM-DD", p)
}

// PositionOf returns a pointer to v for optional positions.
func PositionOf(v int) *int {
	return &v
}

// EntryByID indexes snapshot entries by tool id.
func EntryByID(entries []RankingEntry) map[string]RankingEntry {
	out := make(map[string]RankingEntry, len(entries))
	for _, e := range entries {
		out[e.ToolID] = e
	}
	return out
}
