// Package uid generates string identifiers for correlation and session IDs.
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
