package schema

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, "2025-06", PeriodOf(time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-07", PeriodOf(time.Date(2025, time.July, 1, 1, 0, 0, 0, time.FixedZone("UTC+2", 2*3600)).Add(2*time.Hour)))
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		period string
		valid  bool
	}{
		{"2025-06", true},
		{"2025-06-15", true},
		{" 2025-06 ", true},
		{"", false},
		{"2025", false},
		{"2025-13", false},
		{"June 2025", false},
		{"2025-06-31", false},
	}
	for _, tt := range tests {
		err := ValidatePeriod(tt.period)
		if tt.valid {
			assert.NoError(t, err, tt.period)
		} else {
			assert.Error(t, err, tt.period)
		}
	}
}

func TestToolRecordHelpers(t *testing.T) {
	t.Run("display name fallbacks", func(t *testing.T) {
		assert.Equal(t, "Name", ToolRecord{ID: "id", Slug: "slug", Name: "Name"}.DisplayName())
		assert.Equal(t, "slug", ToolRecord{ID: "id", Slug: "slug"}.DisplayName())
		assert.Equal(t, "id", ToolRecord{ID: "id"}.DisplayName())
	})

	t.Run("active statuses", func(t *testing.T) {
		assert.True(t, ToolRecord{}.IsActive())
		assert.True(t, ToolRecord{Status: ActiveTool}.IsActive())
		assert.False(t, ToolRecord{Status: BetaTool}.IsActive())
		assert.False(t, ToolRecord{Status: DiscontinuedTool}.IsActive())
	})

	t.Run("nil info is safe", func(t *testing.T) {
		tool := ToolRecord{ID: "x"}
		assert.Empty(t, tool.Text())
		assert.Zero(t, tool.FeatureCount())
		assert.Nil(t, tool.Technical())
		assert.Nil(t, tool.Business())
		assert.Nil(t, tool.Metrics())
	})

	t.Run("text is lower-cased", func(t *testing.T) {
		tool := ToolRecord{Info: &ToolInfo{Description: "Agent", Summary: "IDE", Features: []string{"MCP"}}}
		assert.Equal(t, "agent ide mcp", tool.Text())
		assert.Equal(t, 1, tool.FeatureCount())
	})
}

func TestNum(t *testing.T) {
	v, ok := Num(nil)
	assert.False(t, ok)
	assert.Zero(t, v)

	_, ok = Num(Float(math.NaN()))
	assert.False(t, ok)
	_, ok = Num(Float(math.Inf(1)))
	assert.False(t, ok)

	v, ok = Num(Float(0))
	assert.True(t, ok)
	assert.Zero(t, v)

	assert.False(t, Flag(nil))
	assert.True(t, Flag(Bool(true)))
}

func TestFactorScoresClone(t *testing.T) {
	orig := FactorScores{Innovation: 10}
	clone := orig.Clone()
	clone[Innovation] = 20
	assert.Equal(t, 10.0, orig[Innovation])
}

func TestEntryByID(t *testing.T) {
	idx := EntryByID([]RankingEntry{{ToolID: "a", Position: 1}, {ToolID: "b", Position: 2}})
	assert.Len(t, idx, 2)
	assert.Equal(t, 2, idx["b"].Position)
	assert.Equal(t, 3, *PositionOf(3))
}
