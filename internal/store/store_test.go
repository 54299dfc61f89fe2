package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/domain"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, DriverCGO, s.Driver())
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	tables := []string{"users", "user_database", "activity", "partner", "location", "site",
		"admin_level", "admin_entity", "location_admin_link", "attribute", "attribute_value",
		"indicator", "reporting_period", "indicator_value", "user_permission"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestOpenDriver_PureGo(t *testing.T) {
	s := openTestStore(t, DriverPureGo)
	assert.Equal(t, DriverPureGo, s.Driver())
}

func TestOpenDriver_Unsupported(t *testing.T) {
	_, err := OpenDriver("postgres", filepath.Join(t.TempDir(), "test.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestPragmas(t *testing.T) {
	for _, driver := range []string{DriverCGO, DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			s := openTestStore(t, driver)

			assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
			assert.NoError(t, s.verifyPragma("synchronous", "1"))
			assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
			assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
		})
	}
}

func TestMigrations_SetUserVersion(t *testing.T) {
	s := openTestStore(t, DriverCGO)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_reporting_period_site'",
	).Scan(&name)
	assert.NoError(t, err)
}

func TestMigrations_FillFoldedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.db")

	// A version 1 database predates the folded columns.
	raw, err := sql.Open(DriverCGO, path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE partner (id INTEGER PRIMARY KEY, name TEXT NOT NULL, full_name TEXT NOT NULL DEFAULT '')`,
		`CREATE TABLE location (id INTEGER PRIMARY KEY, name TEXT NOT NULL, axe TEXT NOT NULL DEFAULT '', x REAL, y REAL)`,
		`INSERT INTO partner (id, name) VALUES (1, 'Solidarités')`,
		`INSERT INTO location (id, name, axe) VALUES (1, 'Équateur', 'Axe Nord')`,
		`PRAGMA user_version = 1`,
	} {
		_, err := raw.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, raw.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var partner, location, axe string
	require.NoError(t, s.db.QueryRow("SELECT name_folded FROM partner WHERE id = 1").Scan(&partner))
	require.NoError(t, s.db.QueryRow("SELECT name_folded, axe_folded FROM location WHERE id = 1").Scan(&location, &axe))
	assert.Equal(t, "solidarités", partner)
	assert.Equal(t, "équateur", location)
	assert.Equal(t, "axe nord", axe)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestLoadFixture_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadFixture(strings.NewReader("sitez: []\n"))
	assert.Error(t, err)
}

func TestLoadFixture_Empty(t *testing.T) {
	f, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Sites)
}

func TestSeed_ForeignKeyViolationRollsBack(t *testing.T) {
	s := openTestStore(t, DriverCGO)
	ctx := context.Background()

	f := &Fixture{
		Users:     []domain.User{{ID: 1, Email: "a@example.org"}},
		Databases: []domain.UserDatabase{{ID: 1, Name: "db", OwnerID: 1}},
		// activity 99 does not exist
		Sites: []domain.Site{{ID: 1, ActivityID: 99, PartnerID: 1, LocationID: 1}},
	}
	require.Error(t, s.Seed(ctx, f))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count, "failed seed must not leave partial data")
}

func TestDateRoundTrip(t *testing.T) {
	s := openTestStore(t, DriverCGO)
	ctx := context.Background()

	d1 := time.Date(2009, 1, 15, 0, 0, 0, 0, time.UTC)
	f := &Fixture{
		Users:      []domain.User{{ID: 1, Email: "a@example.org"}},
		Databases:  []domain.UserDatabase{{ID: 1, Name: "db", OwnerID: 1}},
		Partners:   []domain.Partner{{ID: 1, Name: "NRC"}},
		Activities: []domain.Activity{{ID: 1, DatabaseID: 1, Name: "NFI"}},
		Locations:  []domain.Location{{ID: 1, Name: "Goma"}},
		Sites:      []domain.Site{{ID: 1, ActivityID: 1, PartnerID: 1, LocationID: 1, Date1: &d1}},
	}
	require.NoError(t, s.Seed(ctx, f))

	var stored string
	require.NoError(t, s.db.QueryRow("SELECT date1 FROM site WHERE id = 1").Scan(&stored))
	assert.Equal(t, "2009-01-15", stored)
}

func TestDeleteSite(t *testing.T) {
	s := openTestStore(t, DriverCGO)
	ctx := context.Background()

	err := s.DeleteSite(ctx, 42, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
