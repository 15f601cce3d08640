package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrUnknownMacro is raised by macro.run for names not in the registry.
	ErrUnknownMacro = errors.New("unknown macro")

	// ErrNoBuffer is raised by buffer functions when no buffer is attached.
	ErrNoBuffer = errors.New("no buffer attached")
)
