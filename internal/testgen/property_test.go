package testgen

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// outline draws a random annotated document.
func outline(rt *rapid.T) string {
	n := rapid.IntRange(0, 20).Draw(rt, "lines")
	lines := make([]string, n)
	for i := range lines {
		depth := rapid.IntRange(0, 3).Draw(rt, "depth")
		indent := strings.Repeat("  ", depth)
		content := rapid.StringMatching(`[a-z ]{0,8}`).Draw(rt, "content")

		switch rapid.SampledFrom([]string{"C", "D", "S", "I", "T", "X", "plain", "blank"}).Draw(rt, "kind") {
		case "plain":
			lines[i] = indent + "do_something"
		case "blank":
			lines[i] = ""
		case "C":
			lines[i] = indent + "C: " + content
		case "D":
			lines[i] = indent + "D: " + content
		case "S":
			lines[i] = indent + "S: " + content
		case "I":
			lines[i] = indent + "I: " + content
		case "T":
			lines[i] = indent + "T: " + content
		case "X":
			lines[i] = indent + "X: " + content
		}
	}
	return strings.Join(lines, "\n")
}

// TestGenerateBalanced checks that, when every container is closed, each
// generated "do" line is matched by a later "end" line.
func TestGenerateBalanced(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := outline(rt)

		buf := buffer.NewBufferFromString(input)
		plan, err := Generate(buf.Snapshot(), WithUnresolvedPolicy(UnresolvedCloseAtEnd))
		if err != nil {
			rt.Fatalf("Generate failed: %v", err)
		}
		if err := buf.ApplyEdits(plan.Batch); err != nil {
			rt.Fatalf("ApplyEdits failed: %v", err)
		}

		depth := 0
		for i, line := range strings.Split(buf.Text(), "\n") {
			switch {
			case strings.HasSuffix(line, `" do`):
				depth++
			case strings.TrimSpace(line) == "end":
				depth--
			}
			if depth < 0 {
				rt.Fatalf("line %d: end without opener in\n%s", i, buf.Text())
			}
		}
		if depth != 0 {
			rt.Fatalf("expected balanced output, depth %d in\n%s", depth, buf.Text())
		}
	})
}

// TestGenerateTouchesOnlyAnnotations checks that every replacement covers a
// whole annotation line and that unannotated lines survive untouched.
func TestGenerateTouchesOnlyAnnotations(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := outline(rt)
		snap := buffer.NewBufferFromString(input).Snapshot()

		plan, err := Generate(snap)
		if err != nil {
			rt.Fatalf("Generate failed: %v", err)
		}

		for _, e := range plan.Batch.Replaces() {
			line := snap.Line(e.Range.Start.Line)
			if e.Range != line.Range {
				rt.Fatalf("replace %v does not cover line %d (%v)", e.Range, line.Index, line.Range)
			}
			if _, ok := Classify(line.Text); !ok {
				rt.Fatalf("replace targets non-annotation line %q", line.Text)
			}
		}
		for _, e := range plan.Batch.Inserts() {
			if e.At.Column != 0 {
				rt.Fatalf("closing insert not at line start: %v", e.At)
			}
		}

		got := plan.Report.Matched() + len(plan.Report.Ignored)
		want := 0
		for i := 0; i < snap.LineCount(); i++ {
			if _, ok := Classify(snap.LineText(i)); ok {
				want++
			}
		}
		if got != want {
			rt.Fatalf("expected %d classified lines, got %d", want, got)
		}
	})
}

// TestGenerateIdempotent checks that a second pass over generated output
// finds nothing left to do.
func TestGenerateIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		buf := buffer.NewBufferFromString(outline(rt))

		first, err := Generate(buf.Snapshot())
		if err != nil {
			rt.Fatalf("Generate failed: %v", err)
		}
		if err := buf.ApplyEdits(first.Batch); err != nil {
			rt.Fatalf("ApplyEdits failed: %v", err)
		}

		second, err := Generate(buf.Snapshot())
		if err != nil {
			rt.Fatalf("Generate failed: %v", err)
		}
		if second.Report.Matched() != 0 {
			rt.Fatalf("expected no annotations after generation, got %d", second.Report.Matched())
		}
	})
}
