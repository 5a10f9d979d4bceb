package event

import "time"

const (
	AuthenticatorEnrolledDestination string = "authenticator.enrolled"
	AuthenticatorVerifiedDestination string = "authenticator.verified"
)

// AuthenticatorEnrolledMessage is published after a new secret is stored.
// It never carries the secret.
type AuthenticatorEnrolledMessage struct {
	Issuer     string    `json:"issuer"`
	Label      string    `json:"label"`
	Algorithm  string    `json:"algorithm"`
	Digits     int       `json:"digits"`
	Period     uint      `json:"period"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuthenticatorVerifiedMessage is published for every verification outcome.
type AuthenticatorVerifiedMessage struct {
	Outcome    string    `json:"outcome"`
	Delta      *int      `json:"delta,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
