package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSession indicates an operation that requires a connected
	// session was attempted without one.
	ErrNoSession = errors.New("no active session, run connect first")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredential indicates a credential is missing its client ID
	// or secret.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNoCredential indicates no credential could be resolved from any
	// source (explicit, file, store, prompt).
	ErrNoCredential = errors.New("no credential available")

	// ErrNoBaseURL indicates no instance URL could be resolved.
	ErrNoBaseURL = errors.New("no instance URL available")

	// ErrAuthFailed indicates authentication against the token endpoint
	// failed after the automatic retry.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPromptUnavailable indicates an interactive prompt was needed but
	// the session is non-interactive.
	ErrPromptUnavailable = errors.New("interactive prompt unavailable")
)
