package cmd

import (
	"fmt"
	"os"

	"github.com/aipowerranking/toolrank/core"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/internal/iocache"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotBackend reads and validates the snapshot store settings.
func snapshotBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// snapshotSetup loads minimal configuration needed for snapshot operations.
func snapshotSetup() error {
	backend, connStr, err := snapshotBackend()
	if err != nil {
		return err
	}

	// Initialize the snapshot store only (no signal cache for snapshot commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotSetup()
}

// snapshotMigrateSetup loads the store settings without opening the store,
// so migrations can run on a fresh database.
func snapshotMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := snapshotBackend()
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// snapshotCmd focused on snapshot management.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored ranking snapshots",
	Long: `Manage the ranking snapshots stored by 'toolrank rank'.

Every period keeps one snapshot; ranking the same period again replaces it.
Snapshots are what 'toolrank compare' and the automatic comparison read.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - List stored snapshots, newest first
  status  - Show snapshot store statistics
  export  - Export snapshots to Parquet for analytics
  clear   - Remove all snapshots
  migrate - Run database schema migrations`,
}

// snapshotListCmd lists stored snapshots.
var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Long: `List the stored snapshots with their algorithm version and size.

Examples:
  toolrank snapshot list --limit 12
  toolrank snapshot list --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list snapshots", err)
		}
	},
}

// snapshotStatusCmd shows snapshot store status.
var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot store statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and connection status
- Number of snapshots and the periods they cover
- When the last snapshot was stored
- Database table sizes

Examples:
  toolrank snapshot status`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(os.Stdout, status)
	},
}

// snapshotClearCmd removes every stored snapshot.
var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored snapshots",
	Long: `Delete all stored snapshots and their entries.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  toolrank snapshot export --output-file backup
  toolrank snapshot clear`,
	PreRunE: snapshotMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		path := sqlitePath(cfg.StoreDBConnect, contract.GetSnapshotDBFilePath())
		if err := iocache.ClearSnapshots(cfg.StoreBackend, path, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}

// snapshotExportCmd exports snapshots to Parquet files.
var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored snapshots to Parquet for BI tools and analytics",
	Long: `Export all stored snapshots to Parquet format.

Writes two files:
- <output-file>.snapshots.parquet - one row per snapshot
- <output-file>.entries.parquet   - one row per ranked tool per snapshot

Requires: --output-file parameter

Examples:
  toolrank snapshot export --output-file rankings
  duckdb -c "SELECT period, tool_id, position FROM read_parquet('rankings.entries.parquet')"`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportSnapshots(iocache.Manager.GetSnapshotStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
	},
}

// snapshotMigrateCmd runs database migrations for the snapshot store.
var snapshotMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  toolrank snapshot migrate

  # Rollback every migration
  toolrank snapshot migrate --target-version 0`,
	PreRunE: snapshotMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateSnapshots(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Snapshot schema already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated snapshot schema from version %d to %d.\n", result.From, result.To)
	},
}
