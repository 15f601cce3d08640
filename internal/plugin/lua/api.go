package lua

import (
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
	"github.com/substantial-kst/vscode-macros/internal/input"

	lua "github.com/yuin/gopher-lua"
)

// Dispatcher runs actions on behalf of scripts.
type Dispatcher interface {
	Dispatch(action input.Action) handler.Result
}

// Editor is the buffer surface exposed to scripts.
type Editor interface {
	Text() string
	LineCount() int
	LineText(line int) string
	Selection() buffer.PointRange
	SetSelection(r buffer.PointRange) error
	SelectedText() string
}

// Host is what a script can reach.
type Host struct {
	Dispatcher Dispatcher
	Macros     *macro.Registry
	Editor     Editor
}

// Install registers the macro and buffer modules as globals.
func (s *State) Install(host Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if host.Macros == nil {
		host.Macros = macro.DefaultRegistry()
	}

	s.L.SetGlobal("macro", s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"list": host.macroList,
		"run":  host.macroRun,
	}))
	s.L.SetGlobal("buffer", s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"text":          host.bufferText,
		"line_count":    host.bufferLineCount,
		"line":          host.bufferLine,
		"selection":     host.bufferSelection,
		"selected_text": host.bufferSelectedText,
		"select":        host.bufferSelect,
	}))
	return nil
}

// macroList returns the registry as an array of tables in macro order.
func (h Host) macroList(L *lua.LState) int {
	macros := h.Macros.List()
	t := L.CreateTable(len(macros), 0)
	for _, m := range macros {
		entry := L.CreateTable(0, 4)
		entry.RawSetString("no", lua.LNumber(m.No))
		entry.RawSetString("name", lua.LString(m.Name))
		entry.RawSetString("action", lua.LString(m.Action))
		entry.RawSetString("description", lua.LString(m.Description))
		t.Append(entry)
	}
	L.Push(t)
	return 1
}

// macroRun dispatches a macro by name or action and returns its status
// and message.
func (h Host) macroRun(L *lua.LState) int {
	name := L.CheckString(1)
	args := L.OptTable(2, nil)

	m, ok := h.Macros.Lookup(name)
	if !ok {
		L.RaiseError("%s: %s", ErrUnknownMacro, name)
		return 0
	}
	if h.Dispatcher == nil {
		L.RaiseError("no dispatcher for %s", m.Action)
		return 0
	}

	action := input.NewAction(m.Action, input.SourceScript)
	if args != nil {
		args.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			if key == "text" {
				action = action.WithText(lua.LVAsString(v))
				return
			}
			action = action.WithArg(string(key), ToGoValue(v))
		})
	}

	result := h.Dispatcher.Dispatch(action)

	msg := result.Message
	if msg == "" && result.Error != nil {
		msg = result.Error.Error()
	}
	L.Push(lua.LString(result.Status.String()))
	L.Push(lua.LString(msg))
	return 2
}

func (h Host) editor(L *lua.LState) Editor {
	if h.Editor == nil {
		L.RaiseError("%s", ErrNoBuffer)
	}
	return h.Editor
}

func (h Host) bufferText(L *lua.LState) int {
	L.Push(lua.LString(h.editor(L).Text()))
	return 1
}

func (h Host) bufferLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(h.editor(L).LineCount()))
	return 1
}

func (h Host) bufferLine(L *lua.LState) int {
	ed := h.editor(L)
	n := L.CheckInt(1)
	if n < 1 || n > ed.LineCount() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ed.LineText(n - 1)))
	return 1
}

func (h Host) bufferSelection(L *lua.LState) int {
	sel := h.editor(L).Selection()
	L.Push(lua.LNumber(sel.Start.Line + 1))
	L.Push(lua.LNumber(sel.Start.Column + 1))
	L.Push(lua.LNumber(sel.End.Line + 1))
	L.Push(lua.LNumber(sel.End.Column + 1))
	return 4
}

func (h Host) bufferSelectedText(L *lua.LState) int {
	L.Push(lua.LString(h.editor(L).SelectedText()))
	return 1
}

// bufferSelect sets the selection. With two arguments the selection is
// collapsed to that point.
func (h Host) bufferSelect(L *lua.LState) int {
	ed := h.editor(L)
	start := buffer.Point{Line: L.CheckInt(1) - 1, Column: L.CheckInt(2) - 1}
	end := start
	if L.GetTop() >= 4 {
		end = buffer.Point{Line: L.CheckInt(3) - 1, Column: L.CheckInt(4) - 1}
	}
	if err := ed.SetSelection(buffer.PointRange{Start: start, End: end}); err != nil {
		L.RaiseError("select: %s", err)
	}
	return 0
}
