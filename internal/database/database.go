// Package database opens the local SQLite database and applies its schema.
package database

import (
	"database/sql"
	"embed"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens a SQLite database at the given path and runs migrations.
// The parent directory is created if needed.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	// A single connection keeps writes serialized and lets ":memory:" databases work.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping db")
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "set dialect")
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "goose up")
	}

	return nil
}

// Version returns the schema version applied to db.
func Version(db *sql.DB) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, errors.Wrap(err, "set dialect")
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, errors.Wrap(err, "get schema version")
	}
	return v, nil
}
