package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/VladmirB/sigmah/internal/querysql"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. Each step below brings a
// database written by an older build up to date; schema.sql alone is the
// shape of a fresh one.
//
//	1: reporting periods indexed by site
//	2: *_folded shadow columns for text search
const schemaVersion = 2

// Registered database/sql driver names.
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

// Store holds sites, their reference data and the permissions scoping them.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens the store at path with the cgo driver.
func Open(path string) (*Store, error) {
	return OpenDriver(DriverCGO, path)
}

// OpenDriver opens or creates the store at path with the named driver and
// brings its schema to the current version. An empty driver means
// DriverCGO.
func OpenDriver(driver, path string) (*Store, error) {
	switch driver {
	case DriverCGO, DriverPureGo:
	case "":
		driver = DriverCGO
	default:
		return nil, fmt.Errorf("unsupported driver %q: must be %q or %q", driver, DriverCGO, DriverPureGo)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}

	// Pragmas are per connection and ":memory:" is per connection too, so
	// the pool holds exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := setup(db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("store opened", "driver", driver, "path", path)
	return &Store{db: db, driver: driver}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the driver the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

func setup(db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("apply %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for v, step := range migrations {
		if version > v {
			continue
		}
		if err := step(db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// migrations[i] upgrades a version i database to i+1.
var migrations = []func(*sql.DB) error{
	func(db *sql.DB) error {
		_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_reporting_period_site ON reporting_period(site_id)`)
		return err
	},
	addFoldedColumns,
}

// foldedColumns lists each shadow column with the column it folds.
var foldedColumns = []struct{ table, source, folded string }{
	{"partner", "name", "name_folded"},
	{"location", "name", "name_folded"},
	{"location", "axe", "axe_folded"},
	{"site", "comments", "comments_folded"},
}

// addFoldedColumns adds the shadow columns missing from a v1 database and
// fills every one of them from its source column.
func addFoldedColumns(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range foldedColumns {
		exists, err := hasColumn(tx, c.table, c.folded)
		if err != nil {
			return err
		}
		if !exists {
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT NOT NULL DEFAULT ''", c.table, c.folded)
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("add %s.%s: %w", c.table, c.folded, err)
			}
		}
		if err := backfill(tx, c.table, c.source, c.folded); err != nil {
			return fmt.Errorf("fill %s.%s: %w", c.table, c.folded, err)
		}
	}
	return tx.Commit()
}

func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("SELECT name FROM pragma_table_info('%s')", table))
	if err != nil {
		return false, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func backfill(tx *sql.Tx, table, source, folded string) error {
	rows, err := tx.Query(fmt.Sprintf("SELECT id, %s FROM %s", source, table))
	if err != nil {
		return err
	}
	values := map[int]string{}
	for rows.Next() {
		var id int
		var text string
		if err := rows.Scan(&id, &text); err != nil {
			rows.Close()
			return err
		}
		values[id] = querysql.Fold(text)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	update := fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", table, folded)
	for id, v := range values {
		if _, err := tx.Exec(update, v, id); err != nil {
			return err
		}
	}
	return nil
}

// verifyPragma checks a pragma's value; tests use it.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
