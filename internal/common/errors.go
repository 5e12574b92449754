// Package common defines shared constants and sentinel errors used across
// the ShareStory client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Storage medium missing, locked or failed to migrate. Fatal at init.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Validation of a story draft failed.
	ErrValidation = errors.New("validation error")

	// Remote API errors.
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRemoteRejected = errors.New("rejected by server")

	// A stored photo encoding could not be turned back into binary.
	ErrDecode = errors.New("photo decode error")
)
