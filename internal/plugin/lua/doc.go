// Package lua runs user scripts against the macro set inside a sandboxed
// gopher-lua state.
//
// Only the base, table, string and math libraries are opened. The loaders
// (dofile, loadfile, load, loadstring, require) are removed and print is
// redirected to the state's output writer.
//
// Two modules are installed as globals:
//
//	macro.list()              -- { {no=1, name="EditorDate", action="macro.editorDate", description=...}, ... }
//	macro.run(name [, args])  -- status, message
//
//	buffer.text()             -- whole document
//	buffer.line_count()
//	buffer.line(n)            -- 1-based, nil when out of range
//	buffer.selection()        -- start_line, start_col, end_line, end_col
//	buffer.selected_text()
//	buffer.select(sl, sc, el, ec)
//
// Lines and columns are 1-based on the Lua side. Columns are byte offsets.
//
// The args table of macro.run maps to the action arguments; the "text" key
// becomes the action text and every other key is passed through, so
//
//	macro.run("GenerateRubyTestFile", { unresolved = "end", quotes = "escape" })
//
// overrides the generator settings for one call.
package lua
