// Package validator provides a small validation abstraction for request
// structs, backed by go-playground/validator v10 with English messages.
package validator
