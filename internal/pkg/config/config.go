package config

import (
	"io"
	"time"
)

// Config is the read-only view of application settings used during wiring.
//
// Getters never fail: a missing or unconvertible key yields the zero value
// (or the registered default).
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint(key string) uint
	GetFloat64(key string) float64

	// GetSecond reads an integer key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads an integer key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetArray reads a comma separated value. Blank elements are dropped.
	GetArray(key string) []string
}
