// Package cmd defines the command-line interface for toolrank.
package cmd

import (
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(algorithmsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(snapshotCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("catalog", "tools.json", "Path to the tool catalog (JSON or YAML)")
	rootCmd.PersistentFlags().String("signals", "", "Optional path to velocity and news signals (JSON or YAML)")
	rootCmd.PersistentFlags().StringP("algorithm", "a", contract.DefaultAlgorithm, "Algorithm version: v6 or v7 or v7.3 or a custom version")
	rootCmd.PersistentFlags().String("date", "", "Reference date in ISO8601 or time ago (default today)")
	rootCmd.PersistentFlags().String("period", "", "Snapshot period label YYYY-MM or YYYY-MM-DD (default month of --date)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent scoring workers")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail a tool when a factor score is out of range instead of clamping it")
	rootCmd.PersistentFlags().Int("top-movers", contract.DefaultTopMovers, "Number of biggest gainers and losers to report")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-factor scores")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Snapshot store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the snapshot store")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Signal cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the signal cache (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "How long cached signals stay fresh (e.g. '7 days', '12h')")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics for each run to this textfile")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().String("compare", string(schema.CompareAuto), "Compare with: auto (latest earlier snapshot), none, or a period")
	rankCmd.Flags().Bool("dry-run", false, "Rank without storing the snapshot")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().Bool("explain", false, "Print the weighted contribution of every factor")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of scheduleCmd to Viper
	scheduleCmd.Flags().String("cron", "", "Cron schedule for ranking runs (e.g. '0 6 1 * *' or '@monthly')")
	if err := viper.BindPFlags(scheduleCmd.Flags()); err != nil {
		contract.LogFatal("Error binding schedule flags", err)
	}

	// Bind all flags of snapshotMigrateCmd to Viper
	snapshotMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot migrate flags", err)
	}
}
