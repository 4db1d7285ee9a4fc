// Package kv defines the key/value contract every storage engine satisfies.
package kv

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store closed")
)

// Store reads & writes opaque values by key.
type Store interface {
	// Get returns ErrNotFound when the key was never set.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// IsNotFound reports whether err, or its cause, is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
