package otp

import (
	"encoding/base32"
	"errors"
	"strings"
)

// ErrEmptySecret indicates an empty secret was supplied.
var ErrEmptySecret = errors.New("otp: secret is empty")

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Secret is the raw shared key between the server and the authenticator app.
type Secret []byte

// Base32 returns the unpadded RFC 4648 Base32 text of the secret, the form
// authenticator apps and the persisted value expect.
func (s Secret) Base32() string {
	return b32NoPadding.EncodeToString(s)
}

// IsEmpty reports whether the secret holds no key material.
func (s Secret) IsEmpty() bool {
	return len(s) == 0
}

// SecretFromBase32 decodes Base32 text into a Secret.
//
// Decoding is lenient the same way authenticator apps are: case, padding and
// embedded spaces are ignored.
func SecretFromBase32(text string) (Secret, error) {
	text = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(text), " ", ""))
	text = strings.TrimRight(text, "=")
	if text == "" {
		return nil, ErrEmptySecret
	}

	raw, err := b32NoPadding.DecodeString(text)
	if err != nil {
		return nil, err
	}

	return Secret(raw), nil
}
