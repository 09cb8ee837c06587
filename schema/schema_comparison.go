package schema

// ComparisonEntry describes one tool's movement between two snapshots.
// PositionChange is previous minus new, so positive means the tool climbed.
type ComparisonEntry struct {
	ToolID           string   `json:"tool_id"`
	ToolName         string   `json:"tool_name"`
	PreviousPosition *int     `json:"previous_position"`
	NewPosition      *int     `json:"new_position"`
	PreviousScore    *float64 `json:"previous_score"`
	NewScore         *float64 `json:"new_score"`
	PositionChange   int      `json:"position_change"`
	ScoreChange      float64  `json:"score_change"`
	Movement         Movement `json:"movement"`
}

// ComparisonSummary holds aggregate statistics for a comparison.
type ComparisonSummary struct {
	TotalTools         int               `json:"total_tools"`
	Counts             map[Movement]int  `json:"counts"`
	AverageScore       float64           `json:"average_score"`
	MinScore           float64           `json:"min_score"`
	MaxScore           float64           `json:"max_score"`
	AverageScoreChange float64           `json:"average_score_change"`
	BiggestGainers     []ComparisonEntry `json:"biggest_gainers"`
	BiggestLosers      []ComparisonEntry `json:"biggest_losers"`
}

// ComparisonReport is the full diff between a new snapshot and a previous one.
// NoPriorData is set when no previous snapshot was found or comparison was skipped;
// every entry is then classified as new.
type ComparisonReport struct {
	CurrentPeriod  string            `json:"current_period"`
	PreviousPeriod string            `json:"previous_period,omitempty"`
	NoPriorData    bool              `json:"no_prior_data"`
	Entries        []ComparisonEntry `json:"entries"`
	Summary        ComparisonSummary `json:"summary"`
}
