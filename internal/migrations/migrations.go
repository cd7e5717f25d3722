package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add command and session indices",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_changes_command ON changes(command_id, id DESC);
			CREATE INDEX IF NOT EXISTS idx_changes_session ON changes(session_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_changes_command;
			DROP INDEX IF EXISTS idx_changes_session;
		`,
	},
	{
		Version: 2,
		Name:    "Add vault column to changes",
		Up: `
			-- vault column already exists in current schema
			-- This migration is kept for backward compatibility with older databases
			CREATE INDEX IF NOT EXISTS idx_changes_vault ON changes(vault, id DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_changes_vault;
		`,
	},
	{
		Version: 3,
		Name:    "Add saved queries",
		Up: `
			CREATE TABLE IF NOT EXISTS saved_queries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				expression TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
		Down: `
			DROP TABLE IF EXISTS saved_queries;
		`,
	},
}

// InitSchema creates every table the change log needs.
// It must run before the migrations.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		vault TEXT NOT NULL DEFAULT '',
		command_id TEXT NOT NULL,
		action TEXT NOT NULL,
		chord TEXT,
		previous TEXT NOT NULL,
		current TEXT NOT NULL,
		summary TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_changes_timestamp ON changes(timestamp DESC);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
