// Package config provides layered settings for the macros.
//
// Settings are read from several layers, from lowest to highest priority:
//
//   - defaults: built in, read-only
//   - user: $XDG_CONFIG_HOME/macros/settings.toml
//   - workspace: <workspace>/.macros/config.toml (or config.yaml)
//   - environment: MACROS_* variables
//   - session: in-memory overrides
//
// Values are addressed by dot-separated paths such as "window.zoomLevel".
// Writes target an explicit Scope, mirroring an editor's global, workspace
// and folder configuration targets, and only the user and workspace scopes
// are persisted by Save.
//
// # Live Reload
//
// Watch follows the user and workspace files and reloads a layer whenever
// its file changes. Subscribers are told about every path whose effective
// value changed.
package config
