package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Incomplete or inconsistent source data is never reported through these
// errors: invalid records and dangling references are filtered out during
// reconciliation.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown handler kind in configuration.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEndpointUnavailable indicates a remote store could not be reached.
	ErrEndpointUnavailable = errors.New("endpoint unavailable")
)
