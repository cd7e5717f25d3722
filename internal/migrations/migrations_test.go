package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesEveryMigrationOnce(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))
	version, err := GetCurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, AllMigrations[len(AllMigrations)-1].Version, version)

	require.NoError(t, Run(db))
	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, len(AllMigrations), applied)
}

func TestSchemaAcceptsChanges(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))

	_, err := db.Exec(`INSERT INTO changes (session_id, timestamp, command_id, action, previous, current, summary)
		VALUES ('s', '2024-01-01 10:00:00', 'app:reload', 'assign', '{}', '{}', 'Assigned')`)
	require.NoError(t, err)

	var vault string
	require.NoError(t, db.QueryRow("SELECT vault FROM changes").Scan(&vault))
	assert.Empty(t, vault)
}
