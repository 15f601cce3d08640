// Package app wires settings, terminals, the dispatcher and the macro set
// into one headless application used by the command line.
package app

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/substantial-kst/vscode-macros/internal/config"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
	"github.com/substantial-kst/vscode-macros/internal/input"
	"github.com/substantial-kst/vscode-macros/internal/integration/terminal"
)

// ShutdownTimeout bounds how long Shutdown waits for terminals.
const ShutdownTimeout = 2 * time.Second

// Options configures the application.
type Options struct {
	// ConfigPath is the user settings file. Empty uses the default location.
	ConfigPath string

	// WorkspacePath is the workspace directory holding .macros/config.*.
	WorkspacePath string

	// LogLevel overrides the logging.level setting.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// TerminalOutput, when set, backs an active terminal named "macros".
	TerminalOutput io.Writer

	// Clock overrides the system clock.
	Clock execctx.Clock

	// IgnoreEnv disables MACROS_* environment overrides.
	IgnoreEnv bool
}

// Application owns the components a macro run needs.
type Application struct {
	// mu serializes runs, which bind the dispatcher to one document.
	mu sync.Mutex

	config     *config.Config
	dispatcher *dispatcher.Dispatcher
	macros     *macro.Handler
	terminals  *terminal.Manager
	logger     *Logger

	levelSub *config.Subscription
	closed   atomic.Bool
	opts     Options
}

// New creates and bootstraps an application.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger, so config errors can be reported
	logCfg := DefaultLoggerConfig()
	logCfg.Output = app.opts.LogOutput
	if app.opts.LogLevel != "" {
		logCfg.Level = ParseLogLevel(app.opts.LogLevel)
	}
	app.logger = NewLogger(logCfg)

	// 2. Settings
	cfgLog := app.logger.WithComponent("config")
	configOpts := []config.Option{
		config.WithErrorHandler(func(err error) {
			cfgLog.Warn("%v", err)
		}),
	}
	if app.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithUserPath(app.opts.ConfigPath))
	}
	if app.opts.WorkspacePath != "" {
		configOpts = append(configOpts, config.WithWorkspaceDir(app.opts.WorkspacePath))
	}
	if app.opts.IgnoreEnv {
		configOpts = append(configOpts, config.WithEnvLoader(nil))
	}
	app.config = config.New(configOpts...)
	if err := app.config.Load(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if app.opts.LogLevel == "" {
		if level, err := app.config.GetString(config.KeyLogLevel); err == nil {
			app.logger.SetLevel(ParseLogLevel(level))
		}
		app.levelSub = app.config.SubscribePath(config.KeyLogLevel, func(c config.Change) {
			if s, ok := c.NewValue.(string); ok {
				app.logger.SetLevel(ParseLogLevel(s))
			}
		})
	}

	// 3. Terminals
	app.terminals = terminal.NewManager()
	if app.opts.TerminalOutput != nil {
		if _, err := app.terminals.Create(terminal.Options{
			Name:   "macros",
			Writer: app.opts.TerminalOutput,
		}); err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
	}

	// 4. Dispatcher and macros
	app.dispatcher = dispatcher.New(dispatcher.DefaultConfig())
	app.dispatcher.SetSettings(app.config)
	app.dispatcher.SetTerminals(app.terminals)
	app.dispatcher.SetLogger(app.logger.WithComponent("dispatcher"))
	if app.opts.Clock != nil {
		app.dispatcher.SetClock(app.opts.Clock)
	}
	hook := dispatcher.LoggingHook{}
	app.dispatcher.RegisterPreHook(hook)
	app.dispatcher.RegisterPostHook(hook)

	app.macros = macro.NewHandler()
	app.dispatcher.RegisterNamespace(app.macros)

	app.logger.Debug("ready: %d macros, user settings %s", app.macros.Registry().Len(), app.config.Path(config.ScopeUser))
	return nil
}

// Config returns the layered settings.
func (app *Application) Config() *config.Config {
	return app.config
}

// Dispatcher returns the action dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Terminals returns the terminal manager.
func (app *Application) Terminals() *terminal.Manager {
	return app.terminals
}

// Macros returns the macro registry.
func (app *Application) Macros() *macro.Registry {
	return app.macros.Registry()
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return GetLogger()
	}
	return app.logger
}

// Execute runs the macro called name against doc. A nil doc runs it with no
// editor open. Entries of args become action arguments; "text" sets the
// action text.
func (app *Application) Execute(name string, doc *Document, args map[string]any) (handler.Result, error) {
	if app.closed.Load() {
		return handler.Result{}, ErrShutdown
	}

	m, ok := app.Macros().Lookup(name)
	if !ok {
		return handler.Result{}, fmt.Errorf("%w: %s", ErrUnknownMacro, name)
	}

	action := input.NewAction(m.Action, input.SourceCommand)
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "text" {
			action = action.WithText(fmt.Sprint(args[k]))
			continue
		}
		action = action.WithArg(k, args[k])
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	app.bind(doc)
	defer app.dispatcher.SetEditor(nil, "")

	return app.dispatcher.Dispatch(action), nil
}

// bind points the dispatcher at doc.
func (app *Application) bind(doc *Document) {
	if doc == nil {
		app.dispatcher.SetEditor(nil, "")
		return
	}
	app.dispatcher.SetEditor(doc.Buffer, doc.Path)
}

// Shutdown closes every terminal and stops listening for setting changes.
func (app *Application) Shutdown() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}
	if app.levelSub != nil {
		app.levelSub.Unsubscribe()
	}
	app.terminals.Shutdown(ShutdownTimeout)
	app.logger.Debug("shut down")
}
