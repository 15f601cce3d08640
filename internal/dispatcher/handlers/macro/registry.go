package macro

import (
	"sort"
	"strings"
)

// Action names for the macros.
const (
	ActionEditorDate             = "macro.editorDate"
	ActionTerminalDate           = "macro.terminalDate"
	ActionTogglePresentationMode = "macro.togglePresentationMode"
	ActionCreateContext          = "macro.createContext"
	ActionCreateTest             = "macro.createTest"
	ActionGenerateRubyTestFile   = "macro.generateRubyTestFile"
)

// Macro describes one entry of the macro table.
type Macro struct {
	// No orders the macro in listings.
	No int

	// Name is the display name, e.g. "CreateTest".
	Name string

	// Action is the dispatcher action that runs the macro.
	Action string

	// Description is a one-line summary.
	Description string
}

// Registry is an ordered, read-only table of macros.
type Registry struct {
	macros []Macro
}

// NewRegistry creates a registry; macros are ordered by No.
func NewRegistry(macros ...Macro) *Registry {
	sorted := make([]Macro, len(macros))
	copy(sorted, macros)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].No < sorted[j].No
	})
	return &Registry{macros: sorted}
}

// DefaultRegistry returns the built-in macros.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Macro{No: 1, Name: "EditorDate", Action: ActionEditorDate,
			Description: "Replace the selection with today's date"},
		Macro{No: 2, Name: "TerminalDate", Action: ActionTerminalDate,
			Description: "Type today's date into the active terminal"},
		Macro{No: 3, Name: "TogglePresentationMode", Action: ActionTogglePresentationMode,
			Description: "Toggle the window zoom level between normal and presentation size"},
		Macro{No: 4, Name: "CreateContext", Action: ActionCreateContext,
			Description: "Wrap the selection as a context block opener"},
		Macro{No: 5, Name: "CreateTest", Action: ActionCreateTest,
			Description: "Wrap the selection as a test block opener"},
		Macro{No: 6, Name: "GenerateRubyTestFile", Action: ActionGenerateRubyTestFile,
			Description: "Turn an annotated outline into context and test blocks"},
	)
}

// List returns the macros in order.
func (r *Registry) List() []Macro {
	out := make([]Macro, len(r.macros))
	copy(out, r.macros)
	return out
}

// Lookup finds a macro by display name (case-insensitive) or action name.
func (r *Registry) Lookup(name string) (Macro, bool) {
	for _, m := range r.macros {
		if strings.EqualFold(m.Name, name) || m.Action == name {
			return m, true
		}
	}
	return Macro{}, false
}

// Actions returns the action names in order.
func (r *Registry) Actions() []string {
	out := make([]string, len(r.macros))
	for i, m := range r.macros {
		out[i] = m.Action
	}
	return out
}

// Len returns the number of macros.
func (r *Registry) Len() int {
	return len(r.macros)
}
