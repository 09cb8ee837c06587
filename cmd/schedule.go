package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aipowerranking/toolrank/core"
	"github.com/spf13/cobra"
)

// scheduleCmd runs rankings on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Build rankings on a cron schedule.",
	Long: `Keep running and build a ranking every time the cron schedule fires.

Every run ranks as of the current UTC day, compares with the latest earlier
snapshot and stores the result. Stop with Ctrl-C or SIGTERM.

Examples:
  # Rank at 06:00 UTC on the first day of every month
  toolrank schedule --cron "0 6 1 * *"

  # Refresh the current month's snapshot every day
  toolrank schedule --cron @daily --algorithm v7`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return core.ExecuteSchedule(ctx, cfg, cacheManager)
	},
}
