// Package db persists batch analysis runs and per-dataset results in
// SQLite.
package db

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the results database at path and ensures the
// schema exists. Schema changes beyond the baseline are managed with
// the migrations in migrations/; see migrate.go.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := sqlDB.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if _, err := sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_at        TIMESTAMP NOT NULL,
			config_json       TEXT,
			dataset_count     BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS results (
			run_id            TEXT NOT NULL,
			dataset_id        BIGINT NOT NULL,
			filename          TEXT,
			outcome           TEXT NOT NULL,
			accuracy          DOUBLE,
			precision_score   DOUBLE,
			recall_score      DOUBLE,
			f1_score          DOUBLE,
			tn                BIGINT,
			fp                BIGINT,
			fn                BIGINT,
			tp                BIGINT,
			active_samples    BIGINT,
			total_samples     BIGINT,
			error             TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(run_id, dataset_id),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{sqlDB}, nil
}
