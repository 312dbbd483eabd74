package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL,
    applied_at TEXT NOT NULL
);

-- One row per simulation run
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    nodes INTEGER NOT NULL,
    steps INTEGER NOT NULL,
    start_time REAL NOT NULL,
    end_time REAL NOT NULL,
    status TEXT NOT NULL,
    final_s INTEGER NOT NULL,
    final_i INTEGER NOT NULL,
    final_r INTEGER NOT NULL,
    attack_rate REAL NOT NULL,
    parameters TEXT  -- YAML, NULL when the run was not built from parameters
);

-- Reaction history, seq is the position in the run
CREATE TABLE IF NOT EXISTS reactions (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    t REAL NOT NULL,
    kind TEXT NOT NULL,
    source INTEGER,  -- NULL for recoveries
    target INTEGER NOT NULL,
    PRIMARY KEY (run_id, seq)
);

-- Compartment counts at t0 (seq 0) and after every reaction
CREATE TABLE IF NOT EXISTS counts (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    t REAL NOT NULL,
    s INTEGER NOT NULL,
    i INTEGER NOT NULL,
    r INTEGER NOT NULL,
    PRIMARY KEY (run_id, seq)
);
`

// InitSchema creates the tables on a fresh database. Existing databases are
// left as they are.
func InitSchema(ctx context.Context, db *sql.DB) error {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err == nil {
		if version > SchemaVersion {
			return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
		}
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}
