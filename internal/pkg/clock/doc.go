// Package clock provides a time source that TOTP validation and lockout
// windows read from, so tests can pin the current period.
package clock
