// Package testgen compiles annotated outlines into Ruby test scaffolding.
//
// An outline is any document containing annotation lines of the form
//
//	<indentation><Letter>: <content>
//
// Container letters (C, D, S by default) become `context "<content>" do`
// blocks whose `end` is inserted before the first later line indented at the
// same depth or shallower. Leaf letters (I, T by default) become a complete
// `test "<content>" do` / `end` pair on the spot. Every other line is left
// alone.
//
// Generation is a pure function of a Document. It produces a Plan holding a
// buffer.Batch (all replacements in scan order, then all closing inserts,
// innermost first) and a Report describing what was matched. Applying the
// batch is left to the caller's editor.
//
//	plan, err := testgen.Generate(buf.Snapshot())
//	if err != nil { ... }
//	if err := buf.ApplyEdits(plan.Batch); err != nil { ... }
package testgen
