package entity

import "github.com/shandysiswandi/authenticator/internal/pkg/otp"

const (
	// SecretKey is the storage key holding the Base32 secret, scoped per session.
	SecretKey = "totp-secret"
	// FailedAttemptsKey counts consecutive failed verifications, scoped per session.
	FailedAttemptsKey = "totp-failed-attempts"
)

// Widget is the per-session enrollment state. It is rebuilt for every request
// from the persisted secret.
type Widget struct {
	SessionID string
	Secret    otp.Secret
	// QR and URI are only populated by Setup within the same request.
	QR  string
	URI string
}

// HasSecret reports whether a secret is loaded; it decides between showing
// the setup button and the verify input.
func (w *Widget) HasSecret() bool {
	return w != nil && !w.Secret.IsEmpty()
}
