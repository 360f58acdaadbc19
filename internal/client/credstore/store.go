// Package credstore persists the client session (access token, refresh
// token, user id) as string values under named keys.
//
// Every backend implements Store. Any backend failure is reported wrapped in
// ErrStorageUnavailable, which callers treat as "not logged in".
package credstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks a failed read or write of the underlying store.
var ErrStorageUnavailable = errors.New("credential storage unavailable")

// Store is a small string key/value store.
//
// Get returns ok=false (and no error) for keys that were never set or have
// been deleted. Delete and DeleteMany are idempotent. SetMany and DeleteMany
// apply all keys or none.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
	Close() error
}

func unavailable(op, key string, err error) error {
	if key == "" {
		return fmt.Errorf("%w: failed to %s credentials: %w", ErrStorageUnavailable, op, err)
	}
	return fmt.Errorf("%w: failed to %s credential[%s]: %w", ErrStorageUnavailable, op, key, err)
}
