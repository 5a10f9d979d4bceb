// Package session carries the browser session that scopes a widget's
// persisted state through request contexts.
package session

import (
	"context"
	"errors"
	"strings"
)

// HeaderSessionID lets API clients pick a session without cookies.
const HeaderSessionID = "X-Session-ID"

// MaxIDLength bounds accepted session IDs.
const MaxIDLength = 128

// ErrNoSession is returned when a request context carries no session.
var ErrNoSession = errors.New("session: no session in context")

type key struct{}

// WithID returns a copy of ctx carrying the session ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// ID returns the session ID stored in ctx.
func ID(ctx context.Context) (string, error) {
	id, _ := ctx.Value(key{}).(string)
	if id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// Normalize trims a client-supplied ID and rejects values that are empty,
// too long, or contain characters outside [A-Za-z0-9_-].
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxIDLength {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return id
}

// Key namespaces a storage key by session: session:<id>:<name>.
func Key(id, name string) string {
	return "session:" + id + ":" + name
}
