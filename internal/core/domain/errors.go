package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexNotReady indicates the index was used before a successful build.
	// Search guards against this; seeing it means the guard was bypassed.
	ErrIndexNotReady = errors.New("policy index: vectorizer not fitted")

	// ErrServiceUnavailable indicates a required collaborator is not configured.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")
)
