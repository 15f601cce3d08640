package testgen

import "errors"

// Errors returned by generation.
var (
	// ErrInvalidOption indicates a letter set, template or policy is unusable.
	ErrInvalidOption = errors.New("testgen: invalid option")

	// ErrNilDocument indicates Generate was called without a document.
	ErrNilDocument = errors.New("testgen: nil document")
)
