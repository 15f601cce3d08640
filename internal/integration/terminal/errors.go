package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrTerminalClosed is returned when operations are attempted on a closed terminal.
	ErrTerminalClosed = errors.New("terminal is closed")

	// ErrTerminalNotFound is returned when a terminal ID is not found.
	ErrTerminalNotFound = errors.New("terminal not found")

	// ErrNoActiveTerminal is returned when no terminal is active.
	ErrNoActiveTerminal = errors.New("no active terminal")

	// ErrNoSink is returned when a terminal has neither a writer nor a command.
	ErrNoSink = errors.New("terminal has no writer or command")

	// ErrShellNotFound is returned when the command executable is not found.
	ErrShellNotFound = errors.New("shell not found")

	// ErrManagerClosed is returned when operations are attempted on a closed manager.
	ErrManagerClosed = errors.New("terminal manager is closed")
)
