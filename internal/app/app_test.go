package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

var fixedNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "settings.toml")
	}
	if opts.LogOutput == nil {
		opts.LogOutput = &bytes.Buffer{}
	}
	if opts.Clock == nil {
		opts.Clock = execctx.ClockFunc(func() time.Time { return fixedNow })
	}
	opts.IgnoreEnv = true

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app
}

func TestNewBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("not = = toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{ConfigPath: path, IgnoreEnv: true, LogOutput: &bytes.Buffer{}})
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "config" {
		t.Errorf("expected config InitError, got %v", err)
	}
}

func TestLogLevelFromSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, Options{ConfigPath: path})
	if app.Logger().Level() != LogLevelDebug {
		t.Errorf("expected debug level from settings, got %v", app.Logger().Level())
	}

	if err := app.Config().SetAt(config.ScopeSession, config.KeyLogLevel, "error"); err != nil {
		t.Fatalf("SetAt failed: %v", err)
	}
	if app.Logger().Level() != LogLevelError {
		t.Errorf("expected live level change, got %v", app.Logger().Level())
	}

	explicit := newTestApp(t, Options{ConfigPath: path, LogLevel: "warn"})
	if explicit.Logger().Level() != LogLevelWarn {
		t.Errorf("expected explicit level to win, got %v", explicit.Logger().Level())
	}
}

func TestExecuteEditorDate(t *testing.T) {
	app := newTestApp(t, Options{})
	doc := NewDocument("", []byte("Today: "))
	if err := doc.Buffer.SetSelection(buffer.PointRange{
		Start: buffer.Point{Line: 0, Column: 7},
		End:   buffer.Point{Line: 0, Column: 7},
	}); err != nil {
		t.Fatal(err)
	}

	res, err := app.Execute("EditorDate", doc, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.IsOK() {
		t.Fatalf("expected ok, got %v: %s", res.Status, res.Message)
	}
	if got := doc.Content(); got != "Today: Tue Mar 05 2024" {
		t.Errorf("unexpected content %q", got)
	}
	if app.Dispatcher().Editor() != nil {
		t.Error("expected editor to be unbound after Execute")
	}
}

func TestExecuteWithoutDocument(t *testing.T) {
	app := newTestApp(t, Options{})

	res, err := app.Execute("CreateTest", nil, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Status != handler.StatusNoOp || res.Message != macro.MsgEditorNotOpen {
		t.Errorf("expected no-op %q, got %v %q", macro.MsgEditorNotOpen, res.Status, res.Message)
	}
}

func TestExecuteUnknown(t *testing.T) {
	app := newTestApp(t, Options{})
	if _, err := app.Execute("Nope", nil, nil); !errors.Is(err, ErrUnknownMacro) {
		t.Errorf("expected ErrUnknownMacro, got %v", err)
	}
}

func TestExecuteTerminalDate(t *testing.T) {
	var term bytes.Buffer
	app := newTestApp(t, Options{TerminalOutput: &term})

	res, err := app.Execute("TerminalDate", nil, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.IsOK() {
		t.Fatalf("expected ok, got %v: %s", res.Status, res.Message)
	}
	if term.String() != "Tue Mar 05 2024" {
		t.Errorf("expected date without newline, got %q", term.String())
	}

	bare := newTestApp(t, Options{})
	res, _ = bare.Execute("TerminalDate", nil, nil)
	if res.Message != macro.MsgTerminalNotFound {
		t.Errorf("expected %q, got %q", macro.MsgTerminalNotFound, res.Message)
	}
}

func TestExecuteToggleAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[window]\nzoomLevel = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, Options{ConfigPath: path})

	res, err := app.Execute("TogglePresentationMode", nil, nil)
	if err != nil || !res.IsOK() {
		t.Fatalf("expected ok, got %v %v", res.Status, err)
	}
	if err := app.Config().Save(config.ScopeUser); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := newTestApp(t, Options{ConfigPath: path})
	zoom, err := reloaded.Config().GetInt(config.KeyZoomLevel)
	if err != nil {
		t.Fatalf("GetInt failed: %v", err)
	}
	if zoom != 2 {
		t.Errorf("expected saved zoom 2, got %d", zoom)
	}
}

func TestExecuteGenerateArgs(t *testing.T) {
	app := newTestApp(t, Options{})
	doc := NewDocument("", []byte("C: a\n  T: b"))

	res, err := app.Execute(macro.ActionGenerateRubyTestFile, doc, map[string]any{macro.ArgUnresolved: "end"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.IsOK() {
		t.Fatalf("expected ok, got %v: %s", res.Status, res.Message)
	}
	want := "context \"a\" do\n  test \"b\" do\n  end\nend"
	if doc.Content() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, doc.Content())
	}
}

func TestRunScript(t *testing.T) {
	app := newTestApp(t, Options{})
	doc := NewDocument("", []byte("adds\nsubtracts"))

	script := writeFile(t, "wrap.lua", `
for i = 1, buffer.line_count() do
	local line = buffer.line(i)
	buffer.select(i, 1, i, #line + 1)
	local status = macro.run("CreateTest")
	print(i, status)
end
`)

	var out bytes.Buffer
	if err := app.RunScript(context.Background(), script, doc, &out); err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	want := "test \"adds\" do\ntest \"subtracts\" do"
	if doc.Content() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, doc.Content())
	}
	if out.String() != "1\tok\n2\tok\n" {
		t.Errorf("unexpected script output %q", out.String())
	}
}

func TestRunScriptError(t *testing.T) {
	app := newTestApp(t, Options{})
	script := writeFile(t, "bad.lua", `macro.run("Missing")`)

	err := app.RunScript(context.Background(), script, nil, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown macro") {
		t.Errorf("expected unknown macro error, got %v", err)
	}
}

func TestRegenerate(t *testing.T) {
	app := newTestApp(t, Options{})
	path := writeFile(t, "outline_test.rb", "D: Widget\n  T: works\n")

	regen := app.Regenerate(path)
	if regen.Err != nil {
		t.Fatalf("Regenerate failed: %v", regen.Err)
	}
	if !regen.Saved {
		t.Error("expected regenerated file to be saved")
	}

	data, _ := os.ReadFile(path)
	want := "context \"Widget\" do\n  test \"works\" do\n  end\nend\n"
	if string(data) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, data)
	}

	again := app.Regenerate(path)
	if again.Err != nil || again.Saved {
		t.Errorf("expected no-op second pass, got saved=%v err=%v", again.Saved, again.Err)
	}
	if again.Result.Message != macro.MsgNoAnnotations {
		t.Errorf("expected %q, got %q", macro.MsgNoAnnotations, again.Result.Message)
	}
}

func TestWatchRegeneratesOnWrite(t *testing.T) {
	app := newTestApp(t, Options{})
	path := writeFile(t, "live_test.rb", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	saved := make(chan Regeneration, 4)
	done := make(chan error, 1)
	go func() {
		done <- app.Watch(ctx, []string{path}, func(r Regeneration) {
			if r.Saved {
				saved <- r
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("T: live\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-saved:
		if r.Err != nil {
			t.Errorf("unexpected error: %v", r.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for regeneration")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "test \"live\" do\nend\n" {
		t.Errorf("unexpected file content %q", data)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestShutdown(t *testing.T) {
	app := newTestApp(t, Options{TerminalOutput: &bytes.Buffer{}})
	app.Shutdown()
	app.Shutdown()

	if app.Terminals().Count() != 0 {
		t.Errorf("expected terminals closed, got %d", app.Terminals().Count())
	}
	if _, err := app.Execute("EditorDate", nil, nil); !errors.Is(err, ErrShutdown) {
		t.Errorf("expected ErrShutdown, got %v", err)
	}
}
