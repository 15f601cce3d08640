// Package input defines the actions that drive the dispatcher.
//
// An Action names a command ("macro.createTest") and carries its arguments.
// Actions come from the command line, from Lua scripts and from the file
// watcher; ActionSource records which.
package input
