package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrUnknownMacro indicates a macro name that is not registered.
	ErrUnknownMacro = errors.New("unknown macro")

	// ErrNoFilePath indicates a document without a backing file.
	ErrNoFilePath = errors.New("document has no file path")

	// ErrReadOnly indicates a write to a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrShutdown indicates the application has been shut down.
	ErrShutdown = errors.New("application shut down")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// FileError reports a failed document file operation.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
