package models

import "errors"

// Application-wide standard errors
var (
	// Common resource/DB errors
	ErrNotFound = errors.New("resource not found")

	// Input errors
	ErrValidation = errors.New("invalid input data")

	// State errors (caller must resolve, never retried)
	ErrConflict = errors.New("operation conflicts with current state")

	// Assistant errors
	ErrContextOverflow = errors.New("prompt does not fit the context window")
	ErrDispatch        = errors.New("model endpoint unreachable")
	ErrModel           = errors.New("model reported an error")
)
