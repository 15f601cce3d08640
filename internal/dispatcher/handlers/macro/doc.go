// Package macro provides the editor macros.
//
// Each macro is a command in the "macro" namespace:
//
//	No  Name                     Action
//	1   EditorDate               macro.editorDate
//	2   TerminalDate             macro.terminalDate
//	3   TogglePresentationMode   macro.togglePresentationMode
//	4   CreateContext            macro.createContext
//	5   CreateTest               macro.createTest
//	6   GenerateRubyTestFile     macro.generateRubyTestFile
//
// The Registry lists macros in that order and resolves names to actions.
// Precondition failures ("No selection", "Terminal not found.") are
// reported as no-op results carrying the message; failures to apply edits
// or write settings are errors.
package macro
