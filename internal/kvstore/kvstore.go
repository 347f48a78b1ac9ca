package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// ErrConflict is returned by Update when the optimistic write keeps
// losing to concurrent writers after all retries.
var ErrConflict = errors.New("kvstore: too many conflicting writes")

// Store is a persistence service over named keys. All module state
// lives behind it (session, catalog), so callers never touch the
// backing store directly and read-modify-write cycles go through
// Update instead of racing on Get/Set.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set unconditionally replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Update applies fn to the current value (nil when absent) and
	// writes the result back, retrying under optimistic concurrency
	// control so concurrent updates cannot lose writes. An error from
	// fn aborts the update and is returned as-is.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
