package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - page, categorylinks, flaggedpages
const currentSchemaVersion = 1

// Driver names accepted by OpenDriver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Store is a read-mostly handle on a wiki page database.
// SQLite databases are opened in WAL mode so concurrent renders can read
// while a seed is running.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens the SQLite page database at path, creating it and its tables
// when missing. Reopening an existing database is safe.
func Open(path string) (*Store, error) {
	return OpenDriver(DriverSQLite, path)
}

// OpenDriver opens a database through a database/sql driver.
//
// For DriverSQLite the dsn is a file path and the schema is applied.
// For DriverPostgres the dsn is a libpq connection string or URL; the
// tables are expected to exist already, as on a live wiki replica.
func OpenDriver(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		if err := prepareSQLite(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the database/sql driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// QueryContext runs a read query. Callers close the returned rows.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// sqlitePragmas run on every SQLite open, in order.
var sqlitePragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

// prepareSQLite pins the pool to one connection, so an in-memory database
// stays one database, then applies pragmas, tables and the schema version.
func prepareSQLite(db *sql.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range sqlitePragmas {
		stmt := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite %s: %w", p.name, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("sqlite user_version: %w", err)
	}
	return nil
}

// pragma reads the current value of a SQLite pragma.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
