package session_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	_, err := session.ID(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)

	id, err := session.ID(session.WithID(context.Background(), "abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  abc-123_X ":           "abc-123_X",
		"":                       "",
		"has space":              "",
		"crlf\r\ninjection":      "",
		"semi;colon":             "",
		strings.Repeat("a", 129): "",
		strings.Repeat("b", 128): strings.Repeat("b", 128),
	}
	for in, want := range tests {
		assert.Equal(t, want, session.Normalize(in), "input %q", in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "session:abc:totp-secret", session.Key("abc", "totp-secret"))
}
