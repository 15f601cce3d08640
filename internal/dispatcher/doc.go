// Package dispatcher routes actions to handlers and coordinates execution.
//
// Actions are routed in two tiers. The Router maps a namespace prefix
// ("macro" in "macro.createTest") to a NamespaceHandler; the Registry maps
// exact action names to handlers sorted by priority. The router is
// consulted first.
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built with the active editor, the terminal
//     manager, the settings store, the clock and the logger
//  2. Pre-dispatch hooks run and may cancel the action
//  3. The handler runs, with panic recovery unless disabled
//  4. Post-dispatch hooks run and may inspect the result
//
// Basic setup:
//
//	d := dispatcher.NewWithDefaults()
//	d.SetEditor(buf, path)
//	d.SetTerminals(terminals)
//	d.SetSettings(cfg)
//	d.RegisterNamespace(macro.NewHandler())
//
//	result := d.Dispatch(input.NewAction("macro.createTest", input.SourceCommand))
package dispatcher
