// Package badgerkv stores values in an embedded Badger database.
package badgerkv

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registro/storage/kv"
)

type store struct {
	db *badger.DB
}

var _ kv.Store = (*store)(nil)

// NewStore opens the database in dir. An empty dir opens an in-memory database.
func NewStore(dir string) (kv.Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger")
	}
	return &store{db: db}, nil
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case err == badger.ErrKeyNotFound:
		return nil, kv.ErrNotFound
	case err == badger.ErrDBClosed:
		return nil, kv.ErrClosed
	case err != nil:
		return nil, errors.Wrapf(err, "reading %q", key)
	}
	return val, nil
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), append([]byte(nil), value...))
	})
	if err == badger.ErrDBClosed {
		return kv.ErrClosed
	}
	return errors.Wrapf(err, "writing %q", key)
}

func (s *store) Close() error {
	return s.db.Close()
}
