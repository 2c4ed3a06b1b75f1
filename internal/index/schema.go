package index

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// An index from an older layout is rebuilt from scratch; it only
	// mirrors files on disk.
	if version != 0 {
		for _, q := range []string{`DROP TABLE IF EXISTS symbols`, `DROP TABLE IF EXISTS files`} {
			if _, err := tx.Exec(q); err != nil {
				return fmt.Errorf("failed to drop old tables: %w", err)
			}
		}
	}

	if err := createTables(tx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return tx.Commit()
}

func createTables(tx *sql.Tx) error {
	queries := []string{
		// One row per indexed source file.
		`CREATE TABLE IF NOT EXISTS files (
            path TEXT PRIMARY KEY,
            indexed_at INTEGER NOT NULL
        )`,

		// Outline entries of each file, replaced wholesale on reindex.
		`CREATE TABLE IF NOT EXISTS symbols (
            path TEXT NOT NULL,
            name TEXT NOT NULL,
            kind INTEGER NOT NULL,
            line INTEGER NOT NULL,
            col INTEGER NOT NULL,
            detail TEXT NOT NULL DEFAULT '',
            FOREIGN KEY (path) REFERENCES files(path) ON DELETE CASCADE
        )`,

		`CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", query, err)
		}
	}
	return nil
}
