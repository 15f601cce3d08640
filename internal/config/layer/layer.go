// Package layer provides configuration layer management.
//
// Settings come from several sources (built-in defaults, the user's global
// file, the workspace file, the environment and in-memory session overrides).
// Each source is a Layer; higher priority layers override lower ones.
package layer

import (
	"time"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents built-in default configuration.
	SourceBuiltin Source = iota
	// SourceUser represents the user's global settings file.
	SourceUser
	// SourceWorkspace represents the workspace settings file (.macros/).
	SourceWorkspace
	// SourceEnv represents environment variables.
	SourceEnv
	// SourceSession represents in-memory session overrides.
	SourceSession
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "defaults"
	case SourceUser:
		return "user"
	case SourceWorkspace:
		return "workspace"
	case SourceEnv:
		return "environment"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Standard priority levels for configuration layers.
const (
	PriorityBuiltin   = 0
	PriorityUser      = 100
	PriorityWorkspace = 200
	PriorityEnv       = 500
	PrioritySession   = 1000
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceUser:
		return PriorityUser
	case SourceWorkspace:
		return PriorityWorkspace
	case SourceEnv:
		return PriorityEnv
	case SourceSession:
		return PrioritySession
	default:
		return PriorityBuiltin
	}
}

// Layer represents a single configuration layer.
type Layer struct {
	// Source indicates where this layer was loaded from.
	Source Source

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Path is the backing file, empty for in-memory layers.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	// ModTime is when the layer data last changed.
	ModTime time.Time

	// ReadOnly prevents modifications to this layer.
	ReadOnly bool
}

// NewLayer creates an empty layer for source at its default priority.
func NewLayer(source Source) *Layer {
	return &Layer{
		Source:   source,
		Priority: DefaultPriority(source),
		Data:     make(map[string]any),
		ModTime:  time.Now(),
	}
}

// Name returns the standard name of the layer's source.
func (l *Layer) Name() string {
	return l.Source.String()
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Source:   l.Source,
		Priority: l.Priority,
		Path:     l.Path,
		Data:     CloneMap(l.Data),
		ModTime:  l.ModTime,
		ReadOnly: l.ReadOnly,
	}
}
