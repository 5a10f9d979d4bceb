// Package qrcode renders text (typically an otpauth:// provisioning URI) as a
// scannable QR image encoded as a data URI, ready to be placed in an <img>
// src attribute.
package qrcode
