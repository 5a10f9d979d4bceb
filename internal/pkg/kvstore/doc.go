// Package kvstore provides a small string key-value store abstraction with
// optional expiry.
//
// It is the server-side stand-in for browser local storage: callers namespace
// keys themselves and the driver (memory, Redis or PostgreSQL) is picked by
// configuration.
package kvstore
