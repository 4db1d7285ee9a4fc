// Package rediskv keeps values as plain Redis strings.
package rediskv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/registro/storage/kv"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type store struct {
	client *redis.Client
	prefix string
}

var _ kv.Store = (*store)(nil)

// NewStore connects & pings the server.
func NewStore(ctx context.Context, opts Options) (kv.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &store{client: client, prefix: opts.Prefix}, nil
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", key)
	}
	return val, nil
}

// Set stores the value without expiration.
func (s *store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	return nil
}

func (s *store) Close() error {
	return s.client.Close()
}
