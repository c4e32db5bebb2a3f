// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound marks lookups addressed at ids that do not resolve.
	ErrNotFound = errors.New("not found")
	// ErrLoadInFlight marks a load attempt while one is outstanding.
	ErrLoadInFlight = errors.New("load already in flight")
	// ErrInvalidInput marks structurally impossible input at a boundary.
	ErrInvalidInput = errors.New("invalid input")
)
