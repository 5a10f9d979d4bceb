package otp

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// DefaultPeriod is the common 30-second TOTP step.
	DefaultPeriod uint = 30
	// DefaultSkew accepts one step on either side of the current one.
	DefaultSkew uint = 1
	// DefaultSecretSize follows the RFC 4226/6238 recommendation.
	DefaultSecretSize uint = 20
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// GenerateSecret creates a new random secret.
	GenerateSecret() (Secret, error)
	// Descriptor returns the enrollment parameters bound to secret.
	Descriptor(secret Secret) Descriptor
	// URI serializes the descriptor for secret into an otpauth:// provisioning URI.
	URI(secret Secret) (string, error)
	// Validate checks code against the window around at and returns the
	// matched step offset.
	Validate(code string, secret Secret, at time.Time) (delta int, ok bool)
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret Secret, at time.Time) (string, error)
}

// Config holds the fixed enrollment parameters.
type Config struct {
	Issuer     string
	Label      string
	Algorithm  otp.Algorithm
	Digits     otp.Digits
	Period     uint
	Skew       uint
	SecretSize uint
}

// Descriptor is the transient view of an enrollment: everything an
// authenticator app needs to derive the same codes.
type Descriptor struct {
	Issuer    string
	Label     string
	Algorithm string
	Digits    int
	Period    uint
	Secret    string
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer     string
	label      string
	algorithm  otp.Algorithm
	digits     otp.Digits
	period     uint
	skew       uint
	secretSize uint
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. Zero period, skew or
// secret size fall back to 30 seconds, one step and 20 bytes.
func NewTOTP(cfg Config) *TOTP {
	if cfg.Digits != otp.DigitsSix && cfg.Digits != otp.DigitsEight {
		cfg.Digits = otp.DigitsSix
	}

	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}

	if cfg.Skew == 0 {
		cfg.Skew = DefaultSkew
	}

	if cfg.SecretSize == 0 {
		cfg.SecretSize = DefaultSecretSize
	}

	return &TOTP{
		issuer:     cfg.Issuer,
		label:      cfg.Label,
		algorithm:  cfg.Algorithm,
		digits:     cfg.Digits,
		period:     cfg.Period,
		skew:       cfg.Skew,
		secretSize: cfg.SecretSize,
	}
}

// ParseAlgorithm maps a configuration string to an otp.Algorithm.
func ParseAlgorithm(alg string) (otp.Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "SHA1":
		return otp.AlgorithmSHA1, nil
	case "SHA256":
		return otp.AlgorithmSHA256, nil
	case "SHA512":
		return otp.AlgorithmSHA512, nil
	case "MD5":
		return otp.AlgorithmMD5, nil
	default:
		return 0, fmt.Errorf("otp: unsupported algorithm %q", alg)
	}
}

// GenerateSecret creates a new random secret.
func (o *TOTP) GenerateSecret() (Secret, error) {
	key, err := totp.Generate(o.generateOpts(nil))
	if err != nil {
		return nil, err
	}

	return SecretFromBase32(key.Secret())
}

// Descriptor returns the enrollment parameters bound to secret.
func (o *TOTP) Descriptor(secret Secret) Descriptor {
	return Descriptor{
		Issuer:    o.issuer,
		Label:     o.label,
		Algorithm: o.algorithm.String(),
		Digits:    o.digits.Length(),
		Period:    o.period,
		Secret:    secret.Base32(),
	}
}

// URI serializes the descriptor for secret into an otpauth:// provisioning URI.
func (o *TOTP) URI(secret Secret) (string, error) {
	if secret.IsEmpty() {
		return "", ErrEmptySecret
	}

	key, err := totp.Generate(o.generateOpts(secret))
	if err != nil {
		return "", err
	}

	return key.URL(), nil
}

// Validate checks whether code matches any step in [-skew, +skew] around at.
//
// Steps are scanned from the oldest to the newest and the first match wins,
// so delta is negative for codes from past windows.
func (o *TOTP) Validate(code string, secret Secret, at time.Time) (int, bool) {
	code = strings.TrimSpace(code)
	if secret.IsEmpty() || len(code) != o.digits.Length() {
		return 0, false
	}

	skew := int(o.skew)
	step := time.Duration(o.period) * time.Second
	for delta := -skew; delta <= skew; delta++ {
		expected, err := o.GenerateCode(secret, at.Add(time.Duration(delta)*step))
		if err != nil {
			return 0, false
		}

		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return delta, true
		}
	}

	return 0, false
}

// GenerateCode creates a TOTP code for the given secret and time.
func (o *TOTP) GenerateCode(secret Secret, at time.Time) (string, error) {
	if secret.IsEmpty() {
		return "", ErrEmptySecret
	}

	return totp.GenerateCodeCustom(secret.Base32(), at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      0,
		Digits:    o.digits,
		Algorithm: o.algorithm,
	})
}

func (o *TOTP) generateOpts(secret Secret) totp.GenerateOpts {
	return totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: o.label,
		Period:      o.period,
		SecretSize:  o.secretSize,
		Secret:      secret,
		Digits:      o.digits,
		Algorithm:   o.algorithm,
	}
}
