package buffer

import (
	"fmt"

	"github.com/google/uuid"
)

// EditKind discriminates the variants of Edit.
type EditKind uint8

const (
	EditReplace EditKind = iota // Replace the text of Range with Text
	EditInsert                  // Insert Text at At, consuming nothing
)

// String returns a string representation of the edit kind.
func (k EditKind) String() string {
	switch k {
	case EditReplace:
		return "replace"
	case EditInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Edit represents a single text edit operation.
// Only the fields belonging to Kind are meaningful: Range for EditReplace,
// At for EditInsert.
type Edit struct {
	Kind  EditKind
	Range PointRange // Target of EditReplace
	At    Point      // Target of EditInsert
	Text  string     // Replacement or inserted text
}

// Replace creates an Edit that replaces the text in r.
func Replace(r PointRange, text string) Edit {
	return Edit{Kind: EditReplace, Range: r, Text: text}
}

// InsertAt creates an Edit that inserts text at p.
func InsertAt(p Point, text string) Edit {
	return Edit{Kind: EditInsert, At: p, Text: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch e.Kind {
	case EditReplace:
		return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.Text)
	case EditInsert:
		return fmt.Sprintf("Insert(%s, %q)", e.At.String(), e.Text)
	default:
		return fmt.Sprintf("Edit(%d)", e.Kind)
	}
}

// IsReplace returns true if this edit replaces a range.
func (e Edit) IsReplace() bool {
	return e.Kind == EditReplace
}

// IsInsert returns true if this edit inserts at a point.
func (e Edit) IsInsert() bool {
	return e.Kind == EditInsert
}

// Target returns the range the edit touches. Inserts yield an empty range.
func (e Edit) Target() PointRange {
	if e.Kind == EditInsert {
		return PointRange{Start: e.At, End: e.At}
	}
	return e.Range
}

// Batch is an ordered group of edits applied atomically.
type Batch struct {
	// ID identifies the batch in logs and results.
	ID string

	// Revision is the buffer revision the edits were computed against.
	// Zero disables the staleness check.
	Revision RevisionID

	// Edits in application order.
	Edits []Edit
}

// NewBatch creates a batch with a fresh ID.
func NewBatch(rev RevisionID, edits ...Edit) Batch {
	return Batch{
		ID:       uuid.NewString(),
		Revision: rev,
		Edits:    edits,
	}
}

// Len returns the number of edits in the batch.
func (b Batch) Len() int {
	return len(b.Edits)
}

// IsEmpty returns true if the batch holds no edits.
func (b Batch) IsEmpty() bool {
	return len(b.Edits) == 0
}

// Replaces returns the replace edits in batch order.
func (b Batch) Replaces() []Edit {
	return b.filter(EditReplace)
}

// Inserts returns the insert edits in batch order.
func (b Batch) Inserts() []Edit {
	return b.filter(EditInsert)
}

func (b Batch) filter(kind EditKind) []Edit {
	var out []Edit
	for _, e := range b.Edits {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// EditError reports which edit of a batch failed validation.
type EditError struct {
	Index int   // Position of the edit in the batch
	Edit  Edit  // The offending edit
	Err   error // Underlying sentinel error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("edit %d (%s): %v", e.Index, e.Edit.String(), e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}
