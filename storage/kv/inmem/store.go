package inmemkv

import (
	"context"
	"sync"

	"github.com/trezcool/registro/storage/kv"
)

type store struct {
	mutex  sync.RWMutex
	table  map[string][]byte
	closed bool
}

var _ kv.Store = (*store)(nil)

func NewStore() kv.Store {
	return &store{table: make(map[string][]byte)}
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil, kv.ErrClosed
	}
	if val, ok := s.table[key]; ok {
		return append([]byte(nil), val...), nil
	}
	return nil, kv.ErrNotFound
}

func (s *store) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return kv.ErrClosed
	}
	s.table[key] = append([]byte(nil), value...)
	return nil
}

func (s *store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}
