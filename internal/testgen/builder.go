package testgen

import (
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// Document is the read-only view of the lines being compiled.
// buffer.Snapshot and buffer.Buffer satisfy it.
type Document interface {
	LineCount() int
	Line(i int) buffer.Line
}

// Report describes what a generation pass found.
type Report struct {
	Lines      int   // Lines scanned
	Containers []int // Container annotation lines
	Leaves     []int // Leaf annotation lines
	Ignored    []int // Annotations whose letter is neither container nor leaf
	Unresolved []int // Containers that ran to the end of the document
}

// Matched returns the number of lines that produced a replacement.
func (r Report) Matched() int {
	return len(r.Containers) + len(r.Leaves)
}

// Builder performs one forward scan over a document, collecting replacements
// and pending closings. A Builder is single use.
type Builder struct {
	opts Options
	doc  Document

	// Indentation width of the most recent annotation line.
	currentIndentationSize int

	replaces []buffer.Edit
	closings ClosingStack
	report   Report
}

// NewBuilder creates a builder over doc.
func NewBuilder(doc Document, opts Options) *Builder {
	return &Builder{opts: opts, doc: doc}
}

// Scan visits every line in order.
func (b *Builder) Scan() {
	n := b.doc.LineCount()
	b.report.Lines = n
	for i := 0; i < n; i++ {
		b.visit(b.doc.Line(i))
	}
}

func (b *Builder) visit(line buffer.Line) {
	m, ok := Classify(line.Text)
	if !ok {
		return
	}

	b.currentIndentationSize = m.Width()

	switch b.opts.kindOf(m.Letter) {
	case kindContainer:
		b.replaces = append(b.replaces, buffer.Replace(line.Range, b.opts.renderContainer(m)))
		target := b.closingTarget(line.Index)
		if target < 0 {
			b.report.Unresolved = append(b.report.Unresolved, line.Index)
		}
		b.closings.Push(Closing{Opener: line.Index, Indent: m.Indent, Target: target})
		b.report.Containers = append(b.report.Containers, line.Index)
	case kindLeaf:
		b.replaces = append(b.replaces, buffer.Replace(line.Range, b.opts.renderLeaf(m)))
		b.report.Leaves = append(b.report.Leaves, line.Index)
	default:
		b.report.Ignored = append(b.report.Ignored, line.Index)
	}
}

// closingTarget returns the first line after opener whose indentation is at
// most currentIndentationSize, or -1 when the block runs to the end.
func (b *Builder) closingTarget(opener int) int {
	n := b.doc.LineCount()
	for i := opener + 1; i < n; i++ {
		if IndentWidth(b.doc.Line(i).Text) <= b.currentIndentationSize {
			return i
		}
	}
	return -1
}

// Replaces returns the replacements collected so far, in scan order.
func (b *Builder) Replaces() []buffer.Edit {
	return b.replaces
}

// Closings drains the pending closings into insert edits, innermost first.
// Unresolved closings follow the builder's UnresolvedPolicy.
func (b *Builder) Closings() []buffer.Edit {
	pending := b.closings.Drain()
	edits := make([]buffer.Edit, 0, len(pending))

	for _, c := range pending {
		if c.Resolved() {
			at := b.doc.Line(c.Target).Start()
			edits = append(edits, buffer.InsertAt(at, b.opts.renderClosing(c.Indent)))
			continue
		}
		if b.opts.Unresolved == UnresolvedCloseAtEnd {
			last := b.doc.Line(b.doc.LineCount() - 1)
			edits = append(edits, buffer.InsertAt(last.End(), b.opts.renderTrailingClosing(c.Indent)))
		}
	}
	return edits
}

// Report returns what the scan found.
func (b *Builder) Report() Report {
	return b.report
}
