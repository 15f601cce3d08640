package macro

import (
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
)

// Messages shown when a macro cannot run.
const (
	MsgEditorNotOpen    = "Editor is not open"
	MsgNoSelection      = "No selection"
	MsgTerminalNotFound = "Terminal not found."
	MsgNoZoomLevel      = "Could not get zoom level"
	MsgNoAnnotations    = "No annotations found"
)

// Argument keys understood by macro.generateRubyTestFile. They override
// the testgen.* settings for a single run.
const (
	ArgUnresolved = "unresolved"
	ArgQuotes     = "quotes"
)

// Handler implements the "macro" namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
	registry *Registry
}

// NewHandler creates a handler for the built-in macros.
func NewHandler() *Handler {
	h := &Handler{
		BaseNamespaceHandler: handler.NewBaseNamespaceHandler("macro"),
		registry:             DefaultRegistry(),
	}

	h.Register(ActionEditorDate, editorDate)
	h.Register(ActionTerminalDate, terminalDate)
	h.Register(ActionTogglePresentationMode, togglePresentationMode)
	h.Register(ActionCreateContext, createContext)
	h.Register(ActionCreateTest, createTest)
	h.Register(ActionGenerateRubyTestFile, generateRubyTestFile)

	return h
}

// Registry returns the macro table served by the handler.
func (h *Handler) Registry() *Registry {
	return h.registry
}
