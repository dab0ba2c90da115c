package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// OpenDB already migrated; a second full run must be a no-op.
	require.NoError(t, Migrate(database))

	var count int
	err = database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}

func TestOpenDBEnforcesForeignKeys(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(
		`INSERT INTO sprints (project_id, name, start_date, end_date, created_at, updated_at)
		 VALUES (42, 'Orphan', '2026-06-01', '2026-06-14', '2026-06-01T00:00:00Z', '2026-06-01T00:00:00Z')`,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}
