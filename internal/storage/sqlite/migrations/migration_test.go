package migrations

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE IF NOT EXISTS slots")
	assert.Contains(t, migrations[0].Down, "DROP TABLE IF EXISTS slots")

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
}

func TestRunMigrations_CreatesSlotsTable(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	// second run is a no-op
	require.NoError(t, RunMigrations(db))

	_, err = db.Exec("INSERT INTO slots (key, value, updated_at) VALUES ('k', 'v', 'now')")
	require.NoError(t, err)

	var dirty int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations WHERE dirty = TRUE").Scan(&dirty))
	assert.Zero(t, dirty)
}

func TestRunMigrations_DirtyDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			dirty BOOLEAN DEFAULT FALSE
		)
	`)
	if err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}

	_, err = db.Exec("INSERT INTO migrations (version, dirty) VALUES (1, TRUE)")
	if err != nil {
		t.Fatalf("failed to insert dirty migration: %v", err)
	}

	err = RunMigrations(db)
	if err == nil {
		t.Fatal("expected RunMigrations to fail on dirty database, but it succeeded")
	}

	if !strings.Contains(err.Error(), "database is in a dirty state") {
		t.Errorf("expected error to mention dirty state, got: %v", err)
	}

	if !strings.Contains(err.Error(), "failed migration(s): [1]") {
		t.Errorf("expected error to mention failed migration version 1, got: %v", err)
	}
}

func TestRunMigrations_KeepsUnrelatedData(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE test_data (id INTEGER PRIMARY KEY, value TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO test_data (value) VALUES ('original data')`)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM test_data").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 1, extractVersion("000001_create_slots.up.sql"))
	assert.Equal(t, 12, extractVersion("000012_x.up.sql"))
	assert.Equal(t, 0, extractVersion("readme.sql"))
}
