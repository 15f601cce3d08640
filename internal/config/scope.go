package config

import (
	"fmt"
	"strings"

	"github.com/substantial-kst/vscode-macros/internal/config/layer"
)

// Scope is a writable configuration target. The numeric values follow the
// editor convention of 1 for global settings.
type Scope uint8

const (
	// ScopeUser is the user's global settings file.
	ScopeUser Scope = iota + 1
	// ScopeWorkspace is the workspace settings file.
	ScopeWorkspace
	// ScopeSession is the in-memory override layer.
	ScopeSession
)

// Scopes lists every writable scope, lowest priority first.
func Scopes() []Scope {
	return []Scope{ScopeUser, ScopeWorkspace, ScopeSession}
}

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeWorkspace:
		return "workspace"
	case ScopeSession:
		return "session"
	default:
		return "unknown"
	}
}

// ParseScope parses a scope name or number.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "user", "global", "1":
		return ScopeUser, nil
	case "workspace", "2":
		return ScopeWorkspace, nil
	case "session", "3":
		return ScopeSession, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScope, s)
	}
}

// source maps a scope to its layer.
func (s Scope) source() (layer.Source, error) {
	switch s {
	case ScopeUser:
		return layer.SourceUser, nil
	case ScopeWorkspace:
		return layer.SourceWorkspace, nil
	case ScopeSession:
		return layer.SourceSession, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidScope, s)
	}
}
