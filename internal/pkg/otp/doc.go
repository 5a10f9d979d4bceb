// Package otp provides helpers for generating and validating one-time
// passwords (OTP), focused on TOTP (time-based OTP).
//
// It is used by the authenticator enrollment flow: generate a secret, build
// the provisioning URI an authenticator app scans, then validate the codes
// the user types back. The HMAC derivation and the URI format are delegated
// to github.com/pquerna/otp.
package otp
