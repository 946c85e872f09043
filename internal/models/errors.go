package models

import "errors"

// Domain errors. Callers match with errors.Is; the HTTP layer maps each kind
// to a status code.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrPlateTaken      = errors.New("vehicle with this plate already registered")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session already closed")
	ErrMissingVersion  = errors.New("version token is required to close a session")
	ErrVersionMismatch = errors.New("session was modified by another request, fetch the current state and retry")

	// ErrActiveSessionExists is reported by the store when the storage-level
	// uniqueness constraint rejects a second open session for the same vehicle.
	ErrActiveSessionExists = errors.New("vehicle already has an active session")

	// ErrInvalidState marks a broken internal invariant. Should be unreachable.
	ErrInvalidState = errors.New("session state violates an invariant")

	// ErrStoreUnavailable wraps transient storage failures; callers may retry.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
