package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE files (
		id           INTEGER PRIMARY KEY,
		file_path    TEXT UNIQUE NOT NULL,
		content_hash TEXT NOT NULL DEFAULT '',
		created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE recipes (
		id           INTEGER PRIMARY KEY,
		file_id      INTEGER UNIQUE NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT,
		instructions TEXT
	)`,
	`CREATE TABLE tags (
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		name      TEXT NOT NULL,
		PRIMARY KEY (recipe_id, position)
	)`,
	`CREATE TABLE yields (
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		factor    REAL,
		unit      TEXT,
		PRIMARY KEY (recipe_id, position)
	)`,
	`CREATE TABLE ingredients (
		recipe_id  INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		group_path TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		factor     REAL,
		unit       TEXT,
		link       TEXT,
		PRIMARY KEY (recipe_id, position)
	)`,
	`CREATE TABLE parse_errors (
		file_id INTEGER UNIQUE NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		kind    TEXT NOT NULL,
		line    INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL
	)`,
	`CREATE INDEX tags_name ON tags(name)`,
	`CREATE INDEX ingredients_name ON ingredients(name)`,
}

// Migrate brings the schema up to date, one transaction per migration.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(All); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(All[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}
