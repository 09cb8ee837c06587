package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "plural months mixed case", input: "3 MoNtHs AgO", expected: fixedNow.AddDate(0, -3, 0)},
		{name: "singular week", input: "1 Week Ago", expected: fixedNow.AddDate(0, 0, -7)},
		{name: "days upper case", input: "10 DAYS AGO", expected: fixedNow.AddDate(0, 0, -10)},
		{name: "years", input: "2 years ago", expected: fixedNow.AddDate(-2, 0, 0)},
		{name: "missing ago", input: "2 years", expectError: true},
		{name: "bad unit", input: "4 decades ago", expectError: true},
		{name: "hours are too fine", input: "5 hours ago", expectError: true},
		{name: "non-numeric", input: "one year ago", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseReferenceDate(t *testing.T) {
	midnight := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "empty means today", input: "", expected: midnight},
		{name: "today", input: "Today", expected: midnight},
		{name: "yesterday", input: "yesterday", expected: midnight.AddDate(0, 0, -1)},
		{name: "relative", input: "1 month ago", expected: midnight.AddDate(0, -1, 0)},
		{name: "iso date", input: "2025-06-01", expected: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 truncated", input: "2025-06-01T18:30:00Z", expected: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{name: "written month", input: "June 1, 2025", expected: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", input: "not a date", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReferenceDate(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %s, got %s", tt.expected, got)
		})
	}
}

func TestParseDuration(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{"go duration", "168h", 7 * day, false},
		{"5 minutes", "5 minutes", 5 * time.Minute, false},
		{"1 hour", "1 hour", time.Hour, false},
		{"7 days", "7 days", 7 * day, false},
		{"4 weeks", "4 weeks", 4 * 7 * day, false},
		{"1 month approx", "1 month", 30 * day, false},
		{"1 year approx", "1 year", 365 * day, false},
		{"mixed case", "3 MoNtHs", 3 * 30 * day, false},
		{"extra space", " 1  day ", day, false},
		{"missing value", "months", 0, true},
		{"missing unit", "3", 0, true},
		{"invalid unit", "3 decades", 0, true},
		{"zero quantity", "0 days", 0, true},
		{"zero go duration", "0s", 0, true},
		{"negative go duration", "-1h", 0, true},
		{"non-integer quantity", "1.5 days", 0, true},
		{"empty string", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.expectErr {
				assert.Error(t, err, "input %q", tt.input)
			} else if assert.NoError(t, err, "input %q", tt.input) {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// FuzzParseReferenceDate checks that arbitrary input never panics and that any
// accepted date is a UTC midnight.
func FuzzParseReferenceDate(f *testing.F) {
	for _, seed := range []string{"", "today", "3 weeks ago", "2025-06-01", "06/01/2025", "June 1, 2025", "garbage"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseReferenceDate(s, fixedNow)
		if err != nil {
			return
		}
		if got.Location() != time.UTC || got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
			t.Fatalf("%q parsed to non-midnight %s", s, got)
		}
	})
}
