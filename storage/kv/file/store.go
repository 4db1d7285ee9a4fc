// Package filekv keeps every key in its own JSON file under a directory.
package filekv

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/registro/storage/kv"
)

const fileExt = ".json"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type store struct {
	mutex sync.RWMutex
	dir   string
}

var _ kv.Store = (*store)(nil)

// NewStore creates dir if needed.
func NewStore(dir string) (kv.Store, error) {
	if dir == "" {
		return nil, errors.New("filekv: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	return &store{dir: dir}, nil
}

func (s *store) path(key string) string {
	return filepath.Join(s.dir, unsafeChars.ReplaceAllString(key, "_")+fileExt)
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", key)
	}
	return data, nil
}

// Set writes to a temp file in the same directory, then renames it over the old one.
func (s *store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %q", key)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "syncing %q", key)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %q", key)
	}
	if err = os.Rename(tmp.Name(), s.path(key)); err != nil {
		return errors.Wrapf(err, "replacing %q", key)
	}
	return nil
}

func (s *store) Close() error { return nil }
