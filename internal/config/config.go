package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/substantial-kst/vscode-macros/internal/config/layer"
	"github.com/substantial-kst/vscode-macros/internal/config/loader"
	"github.com/substantial-kst/vscode-macros/internal/config/watcher"
)

// Config is the layered settings store.
type Config struct {
	// mu serializes writes and reloads so change notifications are ordered.
	mu sync.Mutex

	layers   *layer.Manager
	notifier *notifier

	userPath      string
	workspacePath string
	env           *loader.EnvLoader

	onError func(error)
}

// Option configures a Config.
type Option func(*Config)

// WithUserConfigDir sets the directory holding the user's settings.toml.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userPath = filepath.Join(dir, "settings.toml")
	}
}

// WithUserPath sets the user settings file directly.
func WithUserPath(path string) Option {
	return func(c *Config) {
		c.userPath = path
	}
}

// WithWorkspaceDir sets the workspace root. The workspace settings file is
// the first existing of .macros/config.toml, config.yaml and config.yml,
// or .macros/config.toml when none exists yet.
func WithWorkspaceDir(dir string) Option {
	return func(c *Config) {
		c.workspacePath = findWorkspaceFile(dir)
	}
}

// WithWorkspacePath sets the workspace settings file directly.
func WithWorkspacePath(path string) Option {
	return func(c *Config) {
		c.workspacePath = path
	}
}

// WithEnvLoader replaces the environment loader. A nil loader disables
// the environment layer.
func WithEnvLoader(l *loader.EnvLoader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// WithErrorHandler sets the callback for errors raised while watching.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onError = fn
	}
}

// New creates a configuration with the built-in defaults and empty user,
// workspace, environment and session layers. Call Load to read files.
func New(opts ...Option) *Config {
	c := &Config{
		layers:   layer.NewManager(),
		notifier: newNotifier(),
		userPath: defaultUserPath(),
		env:      loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(c)
	}

	defaults := layer.NewLayer(layer.SourceBuiltin)
	defaults.Data = defaultConfig()
	defaults.ReadOnly = true
	c.layers.AddLayer(defaults)

	user := layer.NewLayer(layer.SourceUser)
	user.Path = c.userPath
	c.layers.AddLayer(user)

	workspace := layer.NewLayer(layer.SourceWorkspace)
	workspace.Path = c.workspacePath
	c.layers.AddLayer(workspace)

	env := layer.NewLayer(layer.SourceEnv)
	env.ReadOnly = true
	c.layers.AddLayer(env)

	c.layers.AddLayer(layer.NewLayer(layer.SourceSession))

	return c
}

// Load reads the user and workspace files and the environment.
// Missing files are not errors.
func (c *Config) Load() error {
	var errs []error
	for _, scope := range []Scope{ScopeUser, ScopeWorkspace} {
		if err := c.Reload(scope); err != nil {
			errs = append(errs, err)
		}
	}

	if c.env != nil {
		c.mu.Lock()
		c.replace(layer.SourceEnv, 0, c.env.Load())
		c.mu.Unlock()
	}

	return errors.Join(errs...)
}

// Reload re-reads the file backing scope and notifies subscribers of every
// effective value that changed. The session scope has no file and is left
// untouched.
func (c *Config) Reload(scope Scope) error {
	path := c.Path(scope)
	if path == "" {
		return nil
	}

	data, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	src, err := scope.source()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replace(src, scope, data)
	return nil
}

// replace swaps a layer's data and notifies the paths whose effective value
// changed. Must be called with c.mu held.
func (c *Config) replace(src layer.Source, scope Scope, data map[string]any) {
	before := c.layers.Merge()
	if _, err := c.layers.Replace(src, data); err != nil {
		return
	}
	after := c.layers.Merge()

	added, modified, removed := layer.DiffMaps(before, after)
	paths := append(append(added, modified...), removed...)
	sort.Strings(paths)

	for _, p := range paths {
		oldVal, _ := layer.GetByPath(before, p)
		newVal, _ := layer.GetByPath(after, p)
		c.notifier.notify(Change{Path: p, Type: ChangeReload, OldValue: oldVal, NewValue: newVal, Scope: scope})
	}
}

// Path returns the file backing scope, or "" if it has none.
func (c *Config) Path(scope Scope) string {
	switch scope {
	case ScopeUser:
		return c.userPath
	case ScopeWorkspace:
		return c.workspacePath
	default:
		return ""
	}
}

// Get returns the effective value at the given path.
func (c *Config) Get(path string) (any, bool) {
	v, _, ok := c.layers.Get(path)
	return v, ok
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
// Floats with no fractional part are accepted.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// Inspection reports a setting's value in every layer.
type Inspection struct {
	Path      string
	Default   any
	User      any
	Workspace any
	Env       any
	Session   any

	// Effective is the merged value and Source the layer providing it.
	Effective any
	Source    string
	Found     bool
}

// Inspect returns the value of path in every layer.
func (c *Config) Inspect(path string) Inspection {
	in := Inspection{Path: path}
	in.Default, _ = c.layers.GetLayerValue(layer.SourceBuiltin, path)
	in.User, _ = c.layers.GetLayerValue(layer.SourceUser, path)
	in.Workspace, _ = c.layers.GetLayerValue(layer.SourceWorkspace, path)
	in.Env, _ = c.layers.GetLayerValue(layer.SourceEnv, path)
	in.Session, _ = c.layers.GetLayerValue(layer.SourceSession, path)

	v, src, ok := c.layers.Get(path)
	if ok {
		in.Effective, in.Source, in.Found = v, src.String(), true
	}
	return in
}

// SetAt sets a value in the given scope. The change is in memory until
// Save is called for a file-backed scope.
func (c *Config) SetAt(scope Scope, path string, value any) error {
	if err := validatePath(path); err != nil {
		return err
	}
	src, err := scope.source()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	oldVal, _ := c.Get(path)
	if err := c.layers.Set(src, path, value); err != nil {
		return err
	}
	c.notifyIfChanged(path, ChangeSet, scope, oldVal)
	return nil
}

// Unset removes a value from the given scope. Removing a value that is not
// set is not an error.
func (c *Config) Unset(scope Scope, path string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	src, err := scope.source()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	oldVal, _ := c.Get(path)
	if _, err := c.layers.Delete(src, path); err != nil {
		return err
	}
	c.notifyIfChanged(path, ChangeDelete, scope, oldVal)
	return nil
}

// notifyIfChanged must be called with c.mu held.
func (c *Config) notifyIfChanged(path string, typ ChangeType, scope Scope, oldVal any) {
	newVal, _ := c.Get(path)
	if reflect.DeepEqual(oldVal, newVal) {
		return
	}
	c.notifier.notify(Change{Path: path, Type: typ, OldValue: oldVal, NewValue: newVal, Scope: scope})
}

// Save writes the layer for scope to its file.
func (c *Config) Save(scope Scope) error {
	path := c.Path(scope)
	if path == "" {
		if scope == ScopeSession {
			return fmt.Errorf("%w: %s", ErrInvalidScope, scope)
		}
		return fmt.Errorf("%w: %s", ErrNoFile, scope)
	}

	src, err := scope.source()
	if err != nil {
		return err
	}
	l, ok := c.layers.Layer(src)
	if !ok {
		return fmt.Errorf("%w: %s", layer.ErrLayerNotFound, scope)
	}
	return loader.SaveFile(path, l.Data)
}

// Merged returns a copy of the effective configuration.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// Subscribe registers an observer for all changes. Observers run
// synchronously and must not write configuration.
func (c *Config) Subscribe(observer Observer) *Subscription {
	return c.notifier.subscribe(observer)
}

// SubscribePath registers an observer for path and everything below it.
func (c *Config) SubscribePath(path string, observer Observer) *Subscription {
	return c.notifier.subscribePath(path, observer)
}

// Watch reloads the user and workspace layers whenever their files change.
// It blocks until ctx is cancelled. Reload errors go to the error handler.
func (c *Config) Watch(ctx context.Context) error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	scopes := make(map[string]Scope)
	for _, scope := range []Scope{ScopeUser, ScopeWorkspace} {
		path := c.Path(scope)
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if err := w.Add(abs); err != nil {
			// The directory may not exist until the first Save.
			c.reportError(fmt.Errorf("watching %s settings: %w", scope, err))
			continue
		}
		scopes[abs] = scope
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if scope, found := scopes[ev.Path]; found {
				if err := c.Reload(scope); err != nil {
					c.reportError(err)
				}
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			c.reportError(err)
		}
	}
}

func (c *Config) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

// validatePath rejects empty paths and empty path segments.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return nil
}

// defaultUserPath returns $XDG_CONFIG_HOME/macros/settings.toml.
func defaultUserPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "macros", "settings.toml")
}

func findWorkspaceFile(dir string) string {
	base := filepath.Join(dir, ".macros")
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(base, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(base, "config.toml")
}
