// Package execctx provides the execution context for action handlers.
package execctx

import (
	"time"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// EditorInterface abstracts the active text editor for handlers.
// *buffer.Buffer satisfies it.
type EditorInterface interface {
	// Read operations
	Text() string
	LineCount() int
	Line(i int) buffer.Line
	Snapshot() *buffer.Snapshot
	RevisionID() buffer.RevisionID

	// Selection
	Selection() buffer.PointRange
	SelectedText() string

	// Editing
	ApplyEdits(batch buffer.Batch) error
}

// TerminalsInterface abstracts the terminal manager for handlers.
type TerminalsInterface interface {
	// SendText sends text to the active terminal.
	SendText(text string, addNewline bool) error
}

// SettingsInterface abstracts configuration for handlers.
type SettingsInterface interface {
	GetInt(path string) (int, error)
	GetBool(path string) (bool, error)
	GetFloat(path string) (float64, error)
	GetString(path string) (string, error)
	SetAt(scope config.Scope, path string, value any) error
	Unset(scope config.Scope, path string) error
}

// LoggerInterface abstracts the application logger for handlers.
type LoggerInterface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the system time.
var SystemClock Clock = ClockFunc(time.Now)

// ExecutionContext provides context for action execution.
// It contains references to the host pieces needed by handlers.
type ExecutionContext struct {
	// Editor is the active text editor, nil when no editor is open.
	Editor EditorInterface

	// Terminals provides access to the active terminal.
	Terminals TerminalsInterface

	// Settings provides configuration access.
	Settings SettingsInterface

	// Clock provides the current time. Defaults to the system clock.
	Clock Clock

	// Logger receives handler diagnostics. May be nil.
	Logger LoggerInterface

	// FilePath is the path of the active editor's document, if any.
	FilePath string

	// DryRun computes edits without applying them.
	DryRun bool

	// Data holds handler-specific context data.
	Data map[string]interface{}
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Clock: SystemClock,
		Data:  make(map[string]interface{}),
	}
}

// WithEditor returns the context with the editor set.
func (ctx *ExecutionContext) WithEditor(editor EditorInterface) *ExecutionContext {
	ctx.Editor = editor
	return ctx
}

// WithTerminals returns the context with the terminal manager set.
func (ctx *ExecutionContext) WithTerminals(terminals TerminalsInterface) *ExecutionContext {
	ctx.Terminals = terminals
	return ctx
}

// WithSettings returns the context with settings set.
func (ctx *ExecutionContext) WithSettings(settings SettingsInterface) *ExecutionContext {
	ctx.Settings = settings
	return ctx
}

// WithClock returns the context with the clock set.
func (ctx *ExecutionContext) WithClock(clock Clock) *ExecutionContext {
	ctx.Clock = clock
	return ctx
}

// WithLogger returns the context with the logger set.
func (ctx *ExecutionContext) WithLogger(logger LoggerInterface) *ExecutionContext {
	ctx.Logger = logger
	return ctx
}

// WithDryRun returns the context with dry run mode enabled.
func (ctx *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	ctx.DryRun = dryRun
	return ctx
}

// Now returns the current time from the context clock.
func (ctx *ExecutionContext) Now() time.Time {
	if ctx.Clock == nil {
		return time.Now()
	}
	return ctx.Clock.Now()
}

// Debug logs a debug message if a logger is set.
func (ctx *ExecutionContext) Debug(msg string, args ...any) {
	if ctx.Logger != nil {
		ctx.Logger.Debug(msg, args...)
	}
}

// HasSelection returns true if the editor has a non-empty selection.
func (ctx *ExecutionContext) HasSelection() bool {
	if ctx.Editor == nil {
		return false
	}
	return !ctx.Editor.Selection().IsEmpty()
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value interface{}) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (interface{}, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ValidateForEdit checks that the context has an editor to change.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	return nil
}

// ValidateForSettings checks that the context has settings access.
func (ctx *ExecutionContext) ValidateForSettings() error {
	if ctx.Settings == nil {
		return ErrMissingSettings
	}
	return nil
}
