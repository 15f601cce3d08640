package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/substantial-kst/vscode-macros/internal/config/loader"
)

// newTestConfig returns a config rooted in a temp dir with no environment.
func newTestConfig(t *testing.T, opts ...Option) (*Config, string) {
	t.Helper()
	dir := t.TempDir()
	base := []Option{
		WithUserConfigDir(filepath.Join(dir, "user")),
		WithWorkspaceDir(filepath.Join(dir, "ws")),
		WithEnvLoader(nil),
	}
	return New(append(base, opts...)...), dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	c, _ := newTestConfig(t)

	if v, err := c.GetInt(KeyPresentationMax); err != nil || v != 2 {
		t.Errorf("expected max 2, got %d (%v)", v, err)
	}
	if v, err := c.GetInt(KeyPresentationMin); err != nil || v != 0 {
		t.Errorf("expected min 0, got %d (%v)", v, err)
	}
	if v, err := c.GetBool(KeyDateZeroPad); err != nil || !v {
		t.Errorf("expected zeroPad true, got %v (%v)", v, err)
	}
	if v, err := c.GetString(KeyTestgenContainers); err != nil || v != "CDS" {
		t.Errorf("expected CDS, got %q (%v)", v, err)
	}
	if _, err := c.GetInt(KeyZoomLevel); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected zoom level unset, got %v", err)
	}
}

func TestTypeErrors(t *testing.T) {
	c, _ := newTestConfig(t)

	_, err := c.GetInt(KeyTestgenLeaves)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
	var te *TypeError
	if !errors.As(err, &te) || te.Expected != "int" || te.Actual != "string" {
		t.Errorf("unexpected type error: %v", err)
	}

	_ = c.SetAt(ScopeSession, "x.f", 1.5)
	if _, err := c.GetInt("x.f"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected fractional float rejected, got %v", err)
	}
	if v, err := c.GetFloat("x.f"); err != nil || v != 1.5 {
		t.Errorf("expected 1.5, got %v (%v)", v, err)
	}
}

func TestLoadLayers(t *testing.T) {
	c, dir := newTestConfig(t)
	writeFile(t, filepath.Join(dir, "user", "settings.toml"), "[window]\nzoomLevel = 1\n")
	writeFile(t, filepath.Join(dir, "ws", ".macros", "config.toml"), "[testgen]\nunresolved = \"end\"\n")

	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := c.GetInt(KeyZoomLevel); v != 1 {
		t.Errorf("expected zoom 1, got %d", v)
	}
	if v, _ := c.GetString(KeyTestgenUnresolved); v != "end" {
		t.Errorf("expected end, got %q", v)
	}

	in := c.Inspect(KeyZoomLevel)
	if in.User != 1 || in.Source != "user" || !in.Found {
		t.Errorf("unexpected inspection: %+v", in)
	}
}

func TestLoadYAMLWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".macros", "config.yaml"), "testgen:\n  quotes: escape\n")

	c := New(WithWorkspaceDir(dir), WithUserPath(""), WithEnvLoader(nil))
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if filepath.Ext(c.Path(ScopeWorkspace)) != ".yaml" {
		t.Errorf("expected yaml workspace file, got %s", c.Path(ScopeWorkspace))
	}
	if v, _ := c.GetString(KeyTestgenQuotes); v != "escape" {
		t.Errorf("expected escape, got %q", v)
	}
}

func TestLoadParseError(t *testing.T) {
	c, dir := newTestConfig(t)
	writeFile(t, filepath.Join(dir, "user", "settings.toml"), "[window\n")

	err := c.Load()
	var pe *loader.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestEnvironmentLayer(t *testing.T) {
	env := loader.NewEnvLoader("MACROS_").WithEnviron(func() []string {
		return []string{"MACROS_ZOOM_LEVEL=2"}
	})
	c, dir := newTestConfig(t, WithEnvLoader(env))
	writeFile(t, filepath.Join(dir, "user", "settings.toml"), "[window]\nzoomLevel = 1\n")

	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := c.GetInt(KeyZoomLevel); v != 2 {
		t.Errorf("expected environment to override user, got %d", v)
	}

	// Session overrides the environment.
	_ = c.SetAt(ScopeSession, KeyZoomLevel, 0)
	if v, _ := c.GetInt(KeyZoomLevel); v != 0 {
		t.Errorf("expected session to override environment, got %d", v)
	}
}

func TestSetAtUnsetAndNotify(t *testing.T) {
	c, _ := newTestConfig(t)

	var mu sync.Mutex
	var changes []Change
	sub := c.SubscribePath("window", func(ch Change) {
		mu.Lock()
		changes = append(changes, ch)
		mu.Unlock()
	})

	if err := c.SetAt(ScopeUser, KeyZoomLevel, 1); err != nil {
		t.Fatalf("SetAt failed: %v", err)
	}
	if err := c.SetAt(ScopeWorkspace, KeyZoomLevel, 2); err != nil {
		t.Fatalf("SetAt failed: %v", err)
	}
	// Same effective value: no notification.
	if err := c.SetAt(ScopeUser, KeyZoomLevel, 3); err != nil {
		t.Fatalf("SetAt failed: %v", err)
	}
	if err := c.Unset(ScopeWorkspace, KeyZoomLevel); err != nil {
		t.Fatalf("Unset failed: %v", err)
	}
	// Unrelated path.
	_ = c.SetAt(ScopeUser, KeyLogLevel, "debug")

	sub.Unsubscribe()
	_ = c.Unset(ScopeUser, KeyZoomLevel)

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d: %+v", len(changes), changes)
	}
	if changes[0].NewValue != 1 || changes[0].Type != ChangeSet || changes[0].Scope != ScopeUser {
		t.Errorf("unexpected first change: %+v", changes[0])
	}
	if changes[2].Type != ChangeDelete || changes[2].OldValue != 2 || changes[2].NewValue != 3 {
		t.Errorf("unexpected last change: %+v", changes[2])
	}
}

func TestSetAtErrors(t *testing.T) {
	c, _ := newTestConfig(t)

	if err := c.SetAt(Scope(9), "a", 1); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
	for _, path := range []string{"", "a..b", ".a"} {
		if err := c.SetAt(ScopeUser, path, 1); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("SetAt(%q): expected ErrInvalidPath, got %v", path, err)
		}
	}
	if err := c.Unset(ScopeSession, "never.set"); err != nil {
		t.Errorf("expected unset of missing value to succeed, got %v", err)
	}
}

func TestSave(t *testing.T) {
	c, dir := newTestConfig(t)

	if err := c.SetAt(ScopeUser, KeyZoomLevel, 2); err != nil {
		t.Fatalf("SetAt failed: %v", err)
	}
	if err := c.Save(ScopeUser); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := New(WithUserConfigDir(filepath.Join(dir, "user")), WithWorkspacePath(""), WithEnvLoader(nil))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := reloaded.GetInt(KeyZoomLevel); v != 2 {
		t.Errorf("expected saved zoom 2, got %d", v)
	}

	if err := c.Save(ScopeSession); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope for session, got %v", err)
	}
	if err := reloaded.Save(ScopeWorkspace); !errors.Is(err, ErrNoFile) {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
}

func TestReloadNotifies(t *testing.T) {
	c, dir := newTestConfig(t)
	path := filepath.Join(dir, "user", "settings.toml")
	writeFile(t, path, "[window]\nzoomLevel = 1\n")
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var got []Change
	c.Subscribe(func(ch Change) { got = append(got, ch) })

	writeFile(t, path, "[window]\nzoomLevel = 2\n")
	if err := c.Reload(ScopeUser); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got))
	}
	if got[0].Path != KeyZoomLevel || got[0].Type != ChangeReload || got[0].NewValue != 2 {
		t.Errorf("unexpected change: %+v", got[0])
	}
}

func TestWatchReloads(t *testing.T) {
	c, dir := newTestConfig(t)
	path := filepath.Join(dir, "user", "settings.toml")
	writeFile(t, path, "[window]\nzoomLevel = 0\n")
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	changed := make(chan Change, 4)
	c.SubscribePath(KeyZoomLevel, func(ch Change) { changed <- ch })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()

	// Keep writing until the watcher picks a change up.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for waiting := true; waiting; {
		select {
		case ch := <-changed:
			if ch.NewValue != 2 {
				t.Errorf("expected 2, got %v", ch.NewValue)
			}
			waiting = false
		case <-tick.C:
			writeFile(t, path, "[window]\nzoomLevel = 2\n")
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want Scope
	}{
		{"user", ScopeUser},
		{"global", ScopeUser},
		{"1", ScopeUser},
		{"Workspace", ScopeWorkspace},
		{"3", ScopeSession},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseScope(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseScope("folder"); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
}
