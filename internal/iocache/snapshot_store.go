package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
)

// Table names for snapshot storage.
const (
	snapshotsTable       = "toolrank_snapshots"
	snapshotEntriesTable = "toolrank_snapshot_entries"
)

// SnapshotStoreImpl implements the SnapshotStore interface on a SQL database.
// Timestamps are stored as Unix milliseconds so every backend reads them alike.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	now     func() time.Time
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore opens the snapshot store for the given backend and creates
// its tables when missing. NoneBackend yields an empty, write-discarding store.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	switch backend {
	case schema.NoneBackend:
		return &SnapshotStoreImpl{backend: backend, now: time.Now}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	db, err := openDB(backend, connStr, GetSnapshotDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createSnapshotTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshot tables: %w", err)
	}

	return &SnapshotStoreImpl{
		db:      db,
		backend: backend,
		connStr: connStr,
		now:     time.Now,
	}, nil
}

// createSnapshotTables creates the snapshot tables.
func createSnapshotTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{snapshotsTable, getCreateSnapshotsQuery(backend)},
		{snapshotEntriesTable, getCreateSnapshotEntriesQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateSnapshotsQuery returns the CREATE TABLE query for toolrank_snapshots.
func getCreateSnapshotsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(snapshotsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				period VARCHAR(10) PRIMARY KEY,
				snapshot_id VARCHAR(36) NOT NULL,
				algorithm_version VARCHAR(64) NOT NULL,
				generated_at BIGINT NOT NULL,
				entry_count INT NOT NULL,
				stored_at BIGINT NOT NULL
			);
		`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				period VARCHAR(10) PRIMARY KEY,
				snapshot_id VARCHAR(36) NOT NULL,
				algorithm_version VARCHAR(64) NOT NULL,
				generated_at BIGINT NOT NULL,
				entry_count INTEGER NOT NULL,
				stored_at BIGINT NOT NULL
			);
		`, quoted)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				period TEXT PRIMARY KEY,
				snapshot_id TEXT NOT NULL,
				algorithm_version TEXT NOT NULL,
				generated_at INTEGER NOT NULL,
				entry_count INTEGER NOT NULL,
				stored_at INTEGER NOT NULL
			);
		`, quoted)
	}
}

// getCreateSnapshotEntriesQuery returns the CREATE TABLE query for toolrank_snapshot_entries.
func getCreateSnapshotEntriesQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(snapshotEntriesTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				period VARCHAR(10) NOT NULL,
				tool_id VARCHAR(255) NOT NULL,
				position INT NOT NULL,
				tool_name VARCHAR(255) NOT NULL,
				score DOUBLE NOT NULL,
				factor_scores TEXT NOT NULL,
				PRIMARY KEY (period, tool_id)
			);
		`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				period VARCHAR(10) NOT NULL,
				tool_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				tool_name TEXT NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				factor_scores TEXT NOT NULL,
				PRIMARY KEY (period, tool_id)
			);
		`, quoted)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				period TEXT NOT NULL,
				tool_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				tool_name TEXT NOT NULL,
				score REAL NOT NULL,
				factor_scores TEXT NOT NULL,
				PRIMARY KEY (period, tool_id)
			);
		`, quoted)
	}
}

// q quotes the given table and rebinds placeholders for the backend.
func (ss *SnapshotStoreImpl) q(format string, table string) string {
	return rebind(fmt.Sprintf(format, quoteTableName(table, ss.backend)), ss.backend)
}

// SaveSnapshot replaces the snapshot for snapshot.Period in one transaction.
func (ss *SnapshotStoreImpl) SaveSnapshot(snapshot schema.RankingSnapshot) (err error) {
	if ss.db == nil {
		return nil
	}
	if err := schema.ValidatePeriod(snapshot.Period); err != nil {
		return err
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(ss.q(`DELETE FROM %s WHERE period = ?`, snapshotEntriesTable), snapshot.Period); err != nil {
		return fmt.Errorf("failed to clear entries for %s: %w", snapshot.Period, err)
	}
	if _, err = tx.Exec(ss.q(`DELETE FROM %s WHERE period = ?`, snapshotsTable), snapshot.Period); err != nil {
		return fmt.Errorf("failed to clear snapshot %s: %w", snapshot.Period, err)
	}

	insertRun := ss.q(`INSERT INTO %s (period, snapshot_id, algorithm_version, generated_at, entry_count, stored_at) VALUES (?, ?, ?, ?, ?, ?)`, snapshotsTable)
	if _, err = tx.Exec(insertRun,
		snapshot.Period,
		snapshot.ID,
		snapshot.AlgorithmVersion,
		snapshot.GeneratedAt.UnixMilli(),
		len(snapshot.Entries),
		ss.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to insert snapshot %s: %w", snapshot.Period, err)
	}

	stmt, err := tx.Prepare(ss.q(`INSERT INTO %s (period, tool_id, position, tool_name, score, factor_scores) VALUES (?, ?, ?, ?, ?, ?)`, snapshotEntriesTable))
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, entry := range snapshot.Entries {
		factors, mErr := json.Marshal(entry.FactorScores)
		if mErr != nil {
			err = fmt.Errorf("failed to marshal factor scores for %s: %w", entry.ToolID, mErr)
			return err
		}
		if _, err = stmt.Exec(snapshot.Period, entry.ToolID, entry.Position, entry.ToolName, entry.Score, string(factors)); err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", entry.ToolID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot %s: %w", snapshot.Period, err)
	}
	return nil
}

// GetSnapshot returns the snapshot stored for an exact period.
func (ss *SnapshotStoreImpl) GetSnapshot(period string) (*schema.RankingSnapshot, error) {
	if ss.db == nil {
		return nil, contract.ErrSnapshotNotFound
	}

	var snapshot schema.RankingSnapshot
	var generatedAt int64
	query := ss.q(`SELECT period, snapshot_id, algorithm_version, generated_at FROM %s WHERE period = ?`, snapshotsTable)
	err := ss.db.QueryRow(query, period).Scan(&snapshot.Period, &snapshot.ID, &snapshot.AlgorithmVersion, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", contract.ErrSnapshotNotFound, period)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", period, err)
	}
	snapshot.GeneratedAt = time.UnixMilli(generatedAt).UTC()

	entries, err := ss.getEntries(period)
	if err != nil {
		return nil, err
	}
	snapshot.Entries = entries
	return &snapshot, nil
}

// getEntries loads the entries of one period in position order.
func (ss *SnapshotStoreImpl) getEntries(period string) ([]schema.RankingEntry, error) {
	query := ss.q(`SELECT position, tool_id, tool_name, score, factor_scores FROM %s WHERE period = ? ORDER BY position, tool_id`, snapshotEntriesTable)
	rows, err := ss.db.Query(query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for %s: %w", period, err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]schema.RankingEntry, 0)
	for rows.Next() {
		var entry schema.RankingEntry
		var factors string
		if err := rows.Scan(&entry.Position, &entry.ToolID, &entry.ToolName, &entry.Score, &factors); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(factors), &entry.FactorScores); err != nil {
			return nil, fmt.Errorf("failed to decode factor scores for %s: %w", entry.ToolID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

// LatestBefore returns the newest snapshot whose period sorts before period.
// Periods are YYYY-MM or YYYY-MM-DD and compare as strings: a monthly label sorts
// before every daily label of its month, so a daily run compares against that
// month's snapshot or an earlier day of the same month.
func (ss *SnapshotStoreImpl) LatestBefore(period string) (*schema.RankingSnapshot, error) {
	if ss.db == nil {
		return nil, contract.ErrSnapshotNotFound
	}

	var previous string
	query := ss.q(`SELECT period FROM %s WHERE period < ? ORDER BY period DESC LIMIT 1`, snapshotsTable)
	err := ss.db.QueryRow(query, period).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: nothing before %s", contract.ErrSnapshotNotFound, period)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshot before %s: %w", period, err)
	}
	return ss.GetSnapshot(previous)
}

// ListSnapshots returns summaries of all stored snapshots, newest period first.
func (ss *SnapshotStoreImpl) ListSnapshots() ([]schema.SnapshotSummary, error) {
	if ss.db == nil {
		return nil, nil
	}

	query := ss.q(`SELECT snapshot_id, period, algorithm_version, generated_at, entry_count, stored_at FROM %s ORDER BY period DESC`, snapshotsTable)
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SnapshotSummary
	for rows.Next() {
		var s schema.SnapshotSummary
		var generatedAt, storedAt int64
		if err := rows.Scan(&s.ID, &s.Period, &s.AlgorithmVersion, &generatedAt, &s.EntryCount, &storedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.GeneratedAt = time.UnixMilli(generatedAt).UTC()
		s.StoredAt = time.UnixMilli(storedAt).UTC()
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return results, nil
}

// DeleteSnapshot removes the snapshot for a period.
func (ss *SnapshotStoreImpl) DeleteSnapshot(period string) (err error) {
	if ss.db == nil {
		return nil
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(ss.q(`DELETE FROM %s WHERE period = ?`, snapshotEntriesTable), period); err != nil {
		return fmt.Errorf("failed to delete entries for %s: %w", period, err)
	}
	if _, err = tx.Exec(ss.q(`DELETE FROM %s WHERE period = ?`, snapshotsTable), period); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", period, err)
	}
	return tx.Commit()
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.db == nil {
		return status, nil
	}

	var oldest, latest sql.NullString
	var storedAt sql.NullInt64
	query := ss.q(`SELECT COUNT(*), MIN(period), MAX(period), MAX(stored_at) FROM %s`, snapshotsTable)
	if err := ss.db.QueryRow(query).Scan(&status.TotalSnapshots, &oldest, &latest, &storedAt); err != nil {
		return status, fmt.Errorf("failed to get snapshot stats: %w", err)
	}
	status.OldestPeriod = oldest.String
	status.LatestPeriod = latest.String
	if storedAt.Valid {
		status.LastStoredTime = time.UnixMilli(storedAt.Int64).UTC()
	}

	for _, table := range []string{snapshotsTable, snapshotEntriesTable} {
		var count int64
		if err := ss.db.QueryRow(ss.q(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalEntries = int(status.TableSizes[snapshotEntriesTable])

	return status, nil
}

// Close closes the underlying DB connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
