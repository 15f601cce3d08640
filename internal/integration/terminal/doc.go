// Package terminal manages the terminals that macros send text to.
//
// A Terminal is a named sink for text: either a plain io.Writer (the CLI
// uses standard output) or the standard input of a child process such as a
// shell. Terminals are identified by a UUID and tracked by a Manager, which
// also remembers the active terminal.
//
//	manager := terminal.NewManager()
//	term, _ := manager.Create(terminal.Options{Name: "stdout", Writer: os.Stdout})
//	_ = term.SendText("Mon Oct 19 2026", false)
//
// All types are safe for concurrent use.
package terminal
