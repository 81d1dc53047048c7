package services

import "errors"

var (
	// ErrUserNotFound indicates that the identity does not resolve to a profile.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidActivity indicates a malformed or negative activity payload.
	ErrInvalidActivity = errors.New("invalid activity")
	// ErrInvalidProfile indicates a registration without an id or display name.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrVersionConflict indicates the profile changed between read and write.
	ErrVersionConflict = errors.New("profile was modified concurrently")
	// ErrPersistence wraps any failure of the underlying record store.
	ErrPersistence = errors.New("persistence failure")
)
