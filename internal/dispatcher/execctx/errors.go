package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEditor indicates an editor is required but not open.
	ErrMissingEditor = errors.New("execution context: editor is required")

	// ErrMissingTerminals indicates the terminal manager is required but not set.
	ErrMissingTerminals = errors.New("execution context: terminals are required")

	// ErrMissingSettings indicates settings are required but not set.
	ErrMissingSettings = errors.New("execution context: settings are required")
)
