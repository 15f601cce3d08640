// Package dispatcher routes actions to handlers and coordinates execution.
package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/input"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	// Host pieces handed to every handler
	editor    execctx.EditorInterface
	terminals execctx.TerminalsInterface
	settings  execctx.SettingsInterface
	clock     execctx.Clock
	logger    execctx.LoggerInterface
	filePath  string

	config Config

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	return &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		clock:    execctx.SystemClock,
		config:   config,
	}
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEditor sets the active editor. A nil editor means no editor is open.
func (d *Dispatcher) SetEditor(editor execctx.EditorInterface, filePath string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editor = editor
	d.filePath = filePath
}

// SetTerminals sets the terminal manager.
func (d *Dispatcher) SetTerminals(terminals execctx.TerminalsInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terminals = terminals
}

// SetSettings sets the configuration store.
func (d *Dispatcher) SetSettings(settings execctx.SettingsInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = settings
}

// SetClock sets the clock handed to handlers.
func (d *Dispatcher) SetClock(clock execctx.Clock) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clock = clock
}

// SetLogger sets the logger handed to handlers.
func (d *Dispatcher) SetLogger(logger execctx.LoggerInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logger
}

// Editor returns the active editor.
func (d *Dispatcher) Editor() execctx.EditorInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editor
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.dispatch(action, d.buildContext())
}

// DispatchDryRun executes an action without applying its edits.
func (d *Dispatcher) DispatchDryRun(action input.Action) handler.Result {
	return d.dispatch(action, d.buildContext().WithDryRun(true))
}

// dispatch is the core dispatch logic.
func (d *Dispatcher) dispatch(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	startTime := time.Now()

	if !d.runPreHooks(&action, ctx) {
		return handler.Result{Status: handler.StatusCancelled, Error: ErrActionCancelled, Message: "cancelled by hook"}
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	d.runPostHooks(&action, ctx, &result)

	if elapsed := time.Since(startTime); d.config.SlowThreshold > 0 && elapsed > d.config.SlowThreshold && ctx.Logger != nil {
		ctx.Logger.Warn("slow handler %s took %v", action.Name, elapsed)
	}

	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = handler.Error(fmt.Errorf("%w for %s: %v\n%s", ErrPanic, action.Name, r, string(stack[:n])))
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext() *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx := execctx.New()
	ctx.Editor = d.editor
	ctx.Terminals = d.terminals
	ctx.Settings = d.settings
	ctx.Clock = d.clock
	ctx.Logger = d.logger
	ctx.FilePath = d.filePath
	return ctx
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.ActionFunc) {
	d.registry.Register(actionName, handler.NewHandlerFunc(fn))
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// UnregisterHandler removes a handler for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// CanDispatch returns true if some handler accepts the action name.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.router.CanRoute(actionName) || d.registry.Has(actionName)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
