package kvstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound indicates the key is absent or expired.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("kvstore: store is closed")
	// ErrEmptyKey indicates an empty key was supplied.
	ErrEmptyKey = errors.New("kvstore: key is empty")
)

// Store defines the key-value operations used by the application.
//
// A zero ttl means the value never expires.
type Store interface {
	io.Closer

	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Incr increments the integer stored at key and returns the new value.
	// The ttl is applied only when the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
