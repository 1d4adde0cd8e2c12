// Package cli provides CLI-specific helpers shared by the evdefteri commands:
// opening the configured store and building the backup manager from config.
package cli

import (
	"database/sql"
	"log/slog"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/config"
	"github.com/thoreinstein/evdefteri/internal/database"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

// Store is the configured key-value store together with its database handle.
type Store struct {
	*kv.SQLiteStore
	db   *sql.DB
	path string
}

// OpenStore opens (creating and migrating if needed) the database at
// cfg.DBPath and returns the store for cfg.Store.Namespace.
func OpenStore(cfg *config.Config) (*Store, error) {
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, errors.NewSystemError(
			errors.Wrapf(err, "opening database %s", cfg.DBPath),
			"Check that the db_path directory is writable, or pass --db",
		)
	}
	return &Store{
		SQLiteStore: kv.NewSQLiteStore(db, cfg.Store.Namespace),
		db:          db,
		path:        cfg.DBPath,
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (int64, error) {
	return database.Version(s.db)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BackupManager returns a backup.Manager configured from cfg. Extra options
// are applied last and win over the configuration.
func BackupManager(cfg *config.Config, logger *slog.Logger, opts ...backup.Option) *backup.Manager {
	base := []backup.Option{
		backup.WithBackupDir(cfg.BackupDir),
		backup.WithMaxFileBytes(cfg.Import.MaxFileBytes),
		backup.WithAtomic(cfg.Restore.Atomic),
		backup.WithLogger(logger),
	}
	return backup.NewManager(append(base, opts...)...)
}
