package cmd

import (
	"github.com/aipowerranking/toolrank/core"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd builds the ranking for one period.
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank every active tool in the catalog.",
	Long: `Score every active tool in the catalog and rank them for a period.

Each tool is scored on eight factors (agentic capability, innovation, technical
performance, developer adoption, market traction, business sentiment, development
velocity and platform resilience). The selected algorithm version weights the
factors into an overall score; ties are broken by the primary score, then by
feature count, description quality, pricing tier and name.

The new snapshot is compared with the latest earlier snapshot (or the period
given with --compare) and then stored, unless --dry-run is set.

Examples:
  # Rank with the default algorithm for the current month
  toolrank rank

  # Rank with v7 as of a past date without storing the result
  toolrank rank --algorithm v7 --date 2025-06-01 --dry-run

  # Compare against a specific period and export to CSV
  toolrank rank --compare 2025-03 --output csv --output-file ranking.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build ranking", err)
		}
	},
}

// scoreCmd scores a single tool.
var scoreCmd = &cobra.Command{
	Use:   "score <tool-id>",
	Short: "Score one tool and show its factor breakdown.",
	Long: `Score a single tool from the catalog, looked up by id or slug.

Examples:
  # Score Cursor with the default algorithm
  toolrank score cursor

  # Explain how every factor contributes under v6
  toolrank score claude-code --algorithm v6 --explain`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot score tool", err)
		}
	},
}

// compareCmd compares two stored snapshots.
var compareCmd = &cobra.Command{
	Use:   "compare <period> [previous-period]",
	Short: "Compare a stored snapshot with an earlier one.",
	Long: `Show how tools moved between two stored snapshots.

Without a previous period, the latest snapshot before <period> is used. Tools
are marked up, down, same, new or dropped, and the biggest gainers and losers
are summarized.

Examples:
  # Compare June with the latest earlier snapshot
  toolrank compare 2025-06

  # Compare June with March, as JSON
  toolrank compare 2025-06 2025-03 --output json`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare snapshots", err)
		}
	},
}

// algorithmsCmd describes the registered algorithm versions.
var algorithmsCmd = &cobra.Command{
	Use:   "algorithms [version]",
	Short: "Describe the available algorithm versions.",
	Long: `List every registered algorithm version with its weights and features.

Custom versions defined under custom_weights in the config file are included.

Examples:
  toolrank algorithms
  toolrank algorithms v7.3 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAlgorithms(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot describe algorithms", err)
		}
	},
}
