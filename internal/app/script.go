package app

import (
	"context"
	"io"

	"github.com/substantial-kst/vscode-macros/internal/plugin/lua"
)

// RunScript executes the Lua file at path with the macro and buffer modules
// bound to doc. print output goes to out.
func (app *Application) RunScript(ctx context.Context, path string, doc *Document, out io.Writer) error {
	if app.closed.Load() {
		return ErrShutdown
	}

	state := lua.NewState(lua.WithOutput(out))
	defer state.Close()

	host := lua.Host{
		Dispatcher: app.dispatcher,
		Macros:     app.Macros(),
	}
	if doc != nil {
		host.Editor = doc.Buffer
	}
	if err := state.Install(host); err != nil {
		return err
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	app.bind(doc)
	defer app.dispatcher.SetEditor(nil, "")

	log := app.logger.WithComponent("script")
	log.Debug("running %s", path)
	if err := state.DoFile(ctx, path); err != nil {
		log.Debug("%s failed: %v", path, err)
		return err
	}
	return nil
}
