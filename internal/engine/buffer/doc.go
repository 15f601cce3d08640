// Package buffer provides the line-oriented text buffer that macros operate on.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Line access with positional ranges (Line, Point, PointRange)
//   - A primary selection, as an editor exposes it to commands
//   - Read-only snapshots that stay stable while the buffer changes
//   - Line ending normalization
//   - Atomic application of edit batches (replace-range / insert-at-point)
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("C: Outer\n  I: Inner")
//
//	snap := buf.Snapshot()
//	first := snap.Line(0) // {Index: 0, Text: "C: Outer", Range: [(0:0):(0:8))}
//
//	batch := buffer.NewBatch(snap.RevisionID(),
//	    buffer.Replace(first.Range, `context "Outer" do`),
//	)
//	err := buf.ApplyEdits(batch)
//
// Edits:
//
// Edit is a tagged union. EditReplace swaps the text of an existing range,
// EditInsert splices text in at a point without consuming anything. A batch
// is validated as a whole before anything is written; when validation fails
// the buffer is left untouched. Inserts that share a point are applied in
// batch order and land before a replacement that starts at the same point.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Snapshots share the immutable line
// slice of the revision they were taken from and never observe later edits.
package buffer
