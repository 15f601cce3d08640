package dispatcher

import (
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/execctx"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/input"
)

// PreDispatchHook is called before an action is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
// It may inspect or modify the result.
type PostDispatchHook interface {
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook logs every dispatch through the context logger.
type LoggingHook struct{}

// PreDispatch logs the action being dispatched.
func (LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	ctx.Debug("dispatching %s (source=%s)", action.Name, action.Source)
	return true
}

// PostDispatch logs the dispatch result.
func (LoggingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	switch {
	case result.IsError():
		ctx.Debug("%s -> %s: %v", action.Name, result.Status, result.Error)
	case result.Message != "":
		ctx.Debug("%s -> %s: %s", action.Name, result.Status, result.Message)
	default:
		ctx.Debug("%s -> %s", action.Name, result.Status)
	}
}
