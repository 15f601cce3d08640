package macro

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
	"github.com/substantial-kst/vscode-macros/internal/input"
	"github.com/substantial-kst/vscode-macros/internal/integration/terminal"
	"github.com/substantial-kst/vscode-macros/internal/testgen"
)

var fixedNow = time.Date(2026, time.October, 5, 9, 30, 0, 0, time.UTC)

// newTestConfig returns settings backed by a temporary user file, without
// an environment layer.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.New(
		config.WithUserPath(filepath.Join(t.TempDir(), "settings.toml")),
		config.WithEnvLoader(nil),
	)
}

func newContext(t *testing.T, buf *buffer.Buffer) *execctx.ExecutionContext {
	t.Helper()
	ctx := execctx.New().
		WithSettings(newTestConfig(t)).
		WithClock(execctx.ClockFunc(func() time.Time { return fixedNow }))
	if buf != nil {
		ctx.WithEditor(buf)
	}
	return ctx
}

func run(h *Handler, name string, ctx *execctx.ExecutionContext) handler.Result {
	return h.HandleAction(input.NewAction(name, input.SourceAPI), ctx)
}

func selectRange(t *testing.T, buf *buffer.Buffer, sl, sc, el, ec int) {
	t.Helper()
	r := buffer.PointRange{Start: buffer.Point{Line: sl, Column: sc}, End: buffer.Point{Line: el, Column: ec}}
	if err := buf.SetSelection(r); err != nil {
		t.Fatalf("SetSelection failed: %v", err)
	}
}

func TestHandlerNamespace(t *testing.T) {
	h := NewHandler()
	if h.Namespace() != "macro" {
		t.Errorf("expected namespace 'macro', got %q", h.Namespace())
	}
	for _, action := range h.Registry().Actions() {
		if !h.CanHandle(action) {
			t.Errorf("expected CanHandle(%s) to return true", action)
		}
	}
	if h.CanHandle("macro.play") {
		t.Error("expected CanHandle('macro.play') to return false")
	}
}

func TestRegistryOrder(t *testing.T) {
	r := DefaultRegistry()

	want := []string{"EditorDate", "TerminalDate", "TogglePresentationMode", "CreateContext", "CreateTest", "GenerateRubyTestFile"}
	list := r.List()
	if len(list) != len(want) {
		t.Fatalf("expected %d macros, got %d", len(want), len(list))
	}
	for i, m := range list {
		if m.Name != want[i] || m.No != i+1 {
			t.Errorf("entry %d: expected %d %s, got %d %s", i, i+1, want[i], m.No, m.Name)
		}
	}

	if m, ok := r.Lookup("createtest"); !ok || m.Action != ActionCreateTest {
		t.Errorf("expected case-insensitive lookup, got %+v %v", m, ok)
	}
	if m, ok := r.Lookup(ActionEditorDate); !ok || m.Name != "EditorDate" {
		t.Errorf("expected lookup by action, got %+v %v", m, ok)
	}
	if _, ok := r.Lookup("Nope"); ok {
		t.Error("expected unknown macro")
	}

	shuffled := NewRegistry(Macro{No: 2, Name: "b"}, Macro{No: 1, Name: "a"})
	if shuffled.List()[0].Name != "a" || shuffled.Len() != 2 {
		t.Errorf("expected registry sorted by number, got %+v", shuffled.List())
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(fixedNow, true); got != "Mon Oct 05 2026" {
		t.Errorf("expected zero padded date, got %q", got)
	}
	if got := FormatDate(fixedNow, false); got != "Mon Oct 5 2026" {
		t.Errorf("expected unpadded date, got %q", got)
	}
}

func TestEditorDate(t *testing.T) {
	h := NewHandler()

	buf := buffer.NewBufferFromString("log: TODAY\n")
	selectRange(t, buf, 0, 5, 0, 10)
	ctx := newContext(t, buf)

	result := run(h, ActionEditorDate, ctx)
	if !result.IsOK() {
		t.Fatalf("expected OK, got %v (%v)", result.Status, result.Error)
	}
	if got := buf.Text(); got != "log: Mon Oct 05 2026\n" {
		t.Errorf("expected date in buffer, got %q", got)
	}

	// Empty selection inserts at the cursor.
	buf = buffer.NewBufferFromString("x")
	selectRange(t, buf, 0, 1, 0, 1)
	_ = ctx.Settings.SetAt(config.ScopeSession, config.KeyDateZeroPad, false)
	ctx.WithEditor(buf)

	run(h, ActionEditorDate, ctx)
	if got := buf.Text(); got != "xMon Oct 5 2026" {
		t.Errorf("expected unpadded date inserted, got %q", got)
	}
}

func TestEditorNotOpen(t *testing.T) {
	h := NewHandler()
	ctx := newContext(t, nil)

	for _, action := range []string{ActionEditorDate, ActionCreateContext, ActionCreateTest, ActionGenerateRubyTestFile} {
		result := run(h, action, ctx)
		if result.Status != handler.StatusNoOp || result.Message != MsgEditorNotOpen {
			t.Errorf("%s: expected %q, got %v %q", action, MsgEditorNotOpen, result.Status, result.Message)
		}
	}
}

func TestTerminalDate(t *testing.T) {
	h := NewHandler()
	ctx := newContext(t, nil)

	result := run(h, ActionTerminalDate, ctx)
	if result.Message != MsgTerminalNotFound {
		t.Errorf("expected %q without terminals, got %q", MsgTerminalNotFound, result.Message)
	}

	terminals := terminal.NewManager()
	ctx.WithTerminals(terminals)

	result = run(h, ActionTerminalDate, ctx)
	if result.Message != MsgTerminalNotFound {
		t.Errorf("expected %q without active terminal, got %q", MsgTerminalNotFound, result.Message)
	}

	var out bytes.Buffer
	if _, err := terminals.Create(terminal.Options{Name: "out", Writer: &out}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result = run(h, ActionTerminalDate, ctx)
	if !result.IsOK() {
		t.Fatalf("expected OK, got %v (%v)", result.Status, result.Error)
	}
	if out.String() != "Mon Oct 05 2026" {
		t.Errorf("expected date without newline, got %q", out.String())
	}
	if result.GetDataString("date") != "Mon Oct 05 2026" {
		t.Errorf("expected date in result, got %q", result.GetDataString("date"))
	}
}

func TestTogglePresentationMode(t *testing.T) {
	h := NewHandler()

	tests := []struct {
		name    string
		setup   func(cfg *config.Config)
		want    int
		message string
	}{
		{
			name:    "unset zoom level",
			setup:   func(cfg *config.Config) {},
			message: MsgNoZoomLevel,
		},
		{
			name:  "zero goes to max",
			setup: func(cfg *config.Config) { _ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 0) },
			want:  2,
		},
		{
			name:  "fractional below max goes to max",
			setup: func(cfg *config.Config) { _ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 1.5) },
			want:  2,
		},
		{
			name:  "max goes to min",
			setup: func(cfg *config.Config) { _ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 2) },
			want:  0,
		},
		{
			name:  "above max goes to min",
			setup: func(cfg *config.Config) { _ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 5) },
			want:  0,
		},
		{
			name: "configured bounds",
			setup: func(cfg *config.Config) {
				_ = cfg.SetAt(config.ScopeUser, config.KeyPresentationMin, -1)
				_ = cfg.SetAt(config.ScopeUser, config.KeyPresentationMax, 4)
				_ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 4)
			},
			want: -1,
		},
		{
			name: "workspace and session overrides are cleared",
			setup: func(cfg *config.Config) {
				_ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 2)
				_ = cfg.SetAt(config.ScopeWorkspace, config.KeyZoomLevel, 1)
				_ = cfg.SetAt(config.ScopeSession, config.KeyZoomLevel, 3)
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			tt.setup(cfg)
			ctx := execctx.New().WithSettings(cfg)

			result := run(h, ActionTogglePresentationMode, ctx)
			if tt.message != "" {
				if result.Status != handler.StatusNoOp || result.Message != tt.message {
					t.Errorf("expected %q, got %v %q", tt.message, result.Status, result.Message)
				}
				return
			}
			if !result.IsOK() {
				t.Fatalf("expected OK, got %v (%v)", result.Status, result.Error)
			}

			insp := cfg.Inspect(config.KeyZoomLevel)
			if insp.User != tt.want {
				t.Errorf("expected user zoom %d, got %v", tt.want, insp.User)
			}
			if insp.Workspace != nil || insp.Session != nil {
				t.Errorf("expected overrides cleared, got workspace=%v session=%v", insp.Workspace, insp.Session)
			}
			if result.GetDataInt("zoomLevel") != tt.want {
				t.Errorf("expected result zoom %d, got %d", tt.want, result.GetDataInt("zoomLevel"))
			}
		})
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	h := NewHandler()
	cfg := newTestConfig(t)
	_ = cfg.SetAt(config.ScopeUser, config.KeyZoomLevel, 0)
	ctx := execctx.New().WithSettings(cfg)

	run(h, ActionTogglePresentationMode, ctx)
	run(h, ActionTogglePresentationMode, ctx)

	got, err := cfg.GetInt(config.KeyZoomLevel)
	if err != nil || got != 0 {
		t.Errorf("expected zoom 0 after two toggles, got %d (%v)", got, err)
	}
}

func TestToggleWithoutSettings(t *testing.T) {
	result := run(NewHandler(), ActionTogglePresentationMode, execctx.New())
	if !errors.Is(result.Error, execctx.ErrMissingSettings) {
		t.Errorf("expected ErrMissingSettings, got %v", result.Error)
	}
}

func TestNextZoomLevel(t *testing.T) {
	tests := []struct {
		current float64
		want    int
	}{
		{-3, 2}, {0, 2}, {1.9, 2}, {2, 0}, {2.5, 0},
	}
	for _, tt := range tests {
		if got := NextZoomLevel(tt.current, 0, 2); got != tt.want {
			t.Errorf("NextZoomLevel(%v): expected %d, got %d", tt.current, tt.want, got)
		}
	}
}

func TestCreateBlocks(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{ActionCreateContext, "  context \"when empty\" do\n"},
		{ActionCreateTest, "  test \"when empty\" do\n"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			buf := buffer.NewBufferFromString("  when empty\n")
			selectRange(t, buf, 0, 2, 0, 12)

			result := run(NewHandler(), tt.action, newContext(t, buf))
			if !result.IsOK() {
				t.Fatalf("expected OK, got %v (%v)", result.Status, result.Error)
			}
			if got := buf.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCreateBlockNoSelection(t *testing.T) {
	buf := buffer.NewBufferFromString("text")

	result := run(NewHandler(), ActionCreateTest, newContext(t, buf))
	if result.Status != handler.StatusNoOp || result.Message != MsgNoSelection {
		t.Errorf("expected %q, got %v %q", MsgNoSelection, result.Status, result.Message)
	}
	if buf.Text() != "text" {
		t.Errorf("expected buffer unchanged, got %q", buf.Text())
	}
}

func TestCreateBlockDryRun(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	selectRange(t, buf, 0, 0, 0, 3)
	ctx := newContext(t, buf).WithDryRun(true)

	result := run(NewHandler(), ActionCreateContext, ctx)
	if !result.IsOK() || len(result.Edits) != 1 {
		t.Fatalf("expected one reported edit, got %+v", result)
	}
	if result.Edits[0].Text != `context "abc" do` {
		t.Errorf("expected context line, got %q", result.Edits[0].Text)
	}
	if buf.Text() != "abc" {
		t.Errorf("expected buffer unchanged in dry run, got %q", buf.Text())
	}
}

func TestGenerateRubyTestFile(t *testing.T) {
	buf := buffer.NewBufferFromString("C: Foo\n  T: works\nputs 1\n")
	ctx := newContext(t, buf)

	result := run(NewHandler(), ActionGenerateRubyTestFile, ctx)
	if !result.IsOK() {
		t.Fatalf("expected OK, got %v (%v)", result.Status, result.Error)
	}

	want := "context \"Foo\" do\n  test \"works\" do\n  end\nend\nputs 1\n"
	if got := buf.Text(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}

	v, ok := result.GetData("report")
	if !ok {
		t.Fatal("expected report in result")
	}
	if report := v.(testgen.Report); len(report.Containers) != 1 || len(report.Leaves) != 1 {
		t.Errorf("expected 1 container and 1 leaf, got %+v", report)
	}

	// A second pass finds nothing.
	result = run(NewHandler(), ActionGenerateRubyTestFile, ctx)
	if result.Status != handler.StatusNoOp || result.Message != MsgNoAnnotations {
		t.Errorf("expected %q, got %v %q", MsgNoAnnotations, result.Status, result.Message)
	}
}

func TestGenerateRubyTestFileSettingsAndArgs(t *testing.T) {
	buf := buffer.NewBufferFromString(`C: say "hi"`)
	ctx := newContext(t, buf)
	_ = ctx.Settings.SetAt(config.ScopeWorkspace, config.KeyTestgenUnresolved, "end")

	action := input.NewAction(ActionGenerateRubyTestFile, input.SourceCommand).WithArg(ArgQuotes, "escape")
	result := NewHandler().HandleAction(action, ctx)
	if !result.IsOK() {
		t.Fatalf("expected OK, got %v (%v)", result.Status, result.Error)
	}

	want := "context \"say \\\"hi\\\"\" do\nend"
	if got := buf.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGenerateOptionsInvalid(t *testing.T) {
	cfg := newTestConfig(t)

	_ = cfg.SetAt(config.ScopeUser, config.KeyTestgenQuotes, "fancy")
	if _, err := GenerateOptions(cfg, input.ActionArgs{}); !errors.Is(err, testgen.ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}

	_ = cfg.SetAt(config.ScopeUser, config.KeyTestgenQuotes, 7)
	if _, err := GenerateOptions(cfg, input.ActionArgs{}); !errors.Is(err, config.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	// Invalid letters are rejected by the generator itself.
	_ = cfg.Unset(config.ScopeUser, config.KeyTestgenQuotes)
	_ = cfg.SetAt(config.ScopeUser, config.KeyTestgenLeaves, "c")
	buf := buffer.NewBufferFromString("T: x")
	ctx := execctx.New().WithSettings(cfg).WithEditor(buf)

	result := run(NewHandler(), ActionGenerateRubyTestFile, ctx)
	if !errors.Is(result.Error, testgen.ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", result.Error)
	}

	opts, err := GenerateOptions(nil, input.ActionArgs{})
	if err != nil || len(opts) != 1 {
		t.Errorf("expected defaults without settings, got %v %v", opts, err)
	}
}
