package testgen

import (
	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// Plan is the outcome of a generation pass.
type Plan struct {
	Batch  buffer.Batch
	Report Report
}

// IsEmpty returns true if the pass produced no edits.
func (p Plan) IsEmpty() bool {
	return p.Batch.IsEmpty()
}

// Assemble concatenates replacements (scan order) and closing inserts
// (innermost first) into the edit order of a batch.
func Assemble(replaces, closings []buffer.Edit) []buffer.Edit {
	edits := make([]buffer.Edit, 0, len(replaces)+len(closings))
	edits = append(edits, replaces...)
	edits = append(edits, closings...)
	return edits
}

// revisioned is implemented by documents that know their buffer revision.
type revisioned interface {
	RevisionID() buffer.RevisionID
}

// Generate scans doc and returns the batch that turns its annotations into
// test blocks. Lines that are not annotations are never referenced by an edit.
func Generate(doc Document, opts ...Option) (Plan, error) {
	if doc == nil {
		return Plan{}, ErrNilDocument
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return Plan{}, err
	}

	b := NewBuilder(doc, o)
	b.Scan()

	var rev buffer.RevisionID
	if r, ok := doc.(revisioned); ok {
		rev = r.RevisionID()
	}

	return Plan{
		Batch:  buffer.NewBatch(rev, Assemble(b.Replaces(), b.Closings())...),
		Report: b.Report(),
	}, nil
}
