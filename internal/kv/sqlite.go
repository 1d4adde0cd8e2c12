package kv

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// SQLiteStore keeps keys in the kv table of a database opened with
// database.Open.
//
// A non-empty namespace is prepended to every key on the way in and stripped
// on the way out, so callers always use logical key names. Keys outside the
// namespace are invisible to the store.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

var (
	_ Store   = (*SQLiteStore)(nil)
	_ Batcher = (*SQLiteStore)(nil)
)

// NewSQLiteStore returns a store over db using the given key namespace.
func NewSQLiteStore(db *sql.DB, namespace string) *SQLiteStore {
	return &SQLiteStore{db: db, namespace: namespace}
}

// Namespace returns the physical key prefix.
func (s *SQLiteStore) Namespace() string { return s.namespace }

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.physical(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get key %q", key)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if err := upsert(ctx, s.db, s.physical(key), value); err != nil {
		return errors.Wrapf(err, "set key %q", key)
	}
	return nil
}

// SetBatch writes all entries in a single transaction.
func (s *SQLiteStore) SetBatch(ctx context.Context, entries []Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin batch")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range entries {
		if err := upsert(ctx, tx, s.physical(e.Key), e.Value); err != nil {
			return errors.Wrapf(err, "set key %q", e.Key)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit batch")
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.physical(key)); err != nil {
		return errors.Wrapf(err, "remove key %q", key)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, errors.Wrap(err, "list keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "scan key")
		}
		if logical, ok := strings.CutPrefix(key, s.namespace); ok {
			keys = append(keys, logical)
		}
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) physical(key string) string {
	return s.namespace + key
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return err
}
