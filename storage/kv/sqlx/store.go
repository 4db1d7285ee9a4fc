// Package sqlxkv keeps values in a single SQL table, on SQLite or PostgreSQL.
package sqlxkv

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/trezcool/registro/storage/kv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_store (
	store_key TEXT PRIMARY KEY,
	store_value TEXT NOT NULL
)`

type store struct {
	db *sqlx.DB

	getQuery string
	setQuery string
}

var _ kv.Store = (*store)(nil)

// SQLiteDSN builds a DSN for the modernc driver out of a file path.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// NewStore connects with the given driver and creates the table if missing.
func NewStore(driver, dsn string) (kv.Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // single writer
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating kv_store table")
	}
	return &store{
		db:       db,
		getQuery: db.Rebind("SELECT store_value FROM kv_store WHERE store_key = ?"),
		setQuery: db.Rebind(`INSERT INTO kv_store (store_key, store_value) VALUES (?, ?)
			ON CONFLICT (store_key) DO UPDATE SET store_value = excluded.store_value`),
	}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	var val string
	err := s.db.GetContext(ctx, &val, s.getQuery, key)
	if err == sql.ErrNoRows {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", key)
	}
	return []byte(val), nil
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, string(value)); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	return nil
}

func (s *store) Close() error {
	return s.db.Close()
}
