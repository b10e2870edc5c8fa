package model

import "errors"

var (
	// ErrInvalidConfiguration marks settings that can never run a test.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrPersistence marks a high score store that cannot be read or written.
	ErrPersistence = errors.New("persistence failure")
	// ErrDisplay marks a display collaborator that failed mid-session.
	ErrDisplay = errors.New("display failure")
)
