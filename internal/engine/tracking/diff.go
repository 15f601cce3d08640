package tracking

import (
	"strconv"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// DiffOptions configures diff computation.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines to include
	// around each change for context. Default is 3.
	ContextLines int

	// Timeout bounds the diff computation. When it expires the result is
	// still correct but may not be minimal. Zero means no limit.
	Timeout time.Duration
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		ContextLines: 3,
		Timeout:      time.Second,
	}
}

// DiffType indicates the type of a diff operation.
type DiffType uint8

const (
	// DiffEqual indicates unchanged lines.
	DiffEqual DiffType = iota

	// DiffInsert indicates added lines.
	DiffInsert

	// DiffDelete indicates removed lines.
	DiffDelete
)

// String returns a human-readable representation of the diff type.
func (dt DiffType) String() string {
	switch dt {
	case DiffEqual:
		return "equal"
	case DiffInsert:
		return "insert"
	case DiffDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// prefix returns the unified diff marker of the type.
func (dt DiffType) prefix() string {
	switch dt {
	case DiffInsert:
		return "+"
	case DiffDelete:
		return "-"
	default:
		return " "
	}
}

// LineDiff is one hunk of a line-based diff.
type LineDiff struct {
	// OldStart is the starting line number in the old text (0-indexed).
	OldStart int

	// OldCount is the number of old lines covered by the hunk.
	OldCount int

	// NewStart is the starting line number in the new text (0-indexed).
	NewStart int

	// NewCount is the number of new lines covered by the hunk.
	NewCount int

	// Lines holds the hunk body, each line prefixed with " ", "-" or "+".
	Lines []string
}

// IsEmpty returns true if this hunk has no lines.
func (ld LineDiff) IsEmpty() bool {
	return len(ld.Lines) == 0
}

// DiffResult contains the complete result of a diff operation.
type DiffResult struct {
	// Hunks are the individual diff hunks. Only hunks with changes are kept.
	Hunks []LineDiff

	// OldLineCount is the total line count in the old text.
	OldLineCount int

	// NewLineCount is the total line count in the new text.
	NewLineCount int
}

// HasChanges returns true if there are any differences.
func (dr DiffResult) HasChanges() bool {
	return len(dr.Hunks) > 0
}

// InsertedLines returns the total number of inserted lines.
func (dr DiffResult) InsertedLines() int {
	return dr.count('+')
}

// DeletedLines returns the total number of deleted lines.
func (dr DiffResult) DeletedLines() int {
	return dr.count('-')
}

func (dr DiffResult) count(marker byte) int {
	count := 0
	for _, hunk := range dr.Hunks {
		for _, line := range hunk.Lines {
			if len(line) > 0 && line[0] == marker {
				count++
			}
		}
	}
	return count
}

// ComputeSnapshotDiff computes a line-based diff between two snapshots.
func ComputeSnapshotDiff(oldSnap, newSnap *buffer.Snapshot, opts DiffOptions) DiffResult {
	return computeLineDiffFromLines(oldSnap.Lines(), newSnap.Lines(), opts)
}

// ComputeLineDiffStrings computes a line-based diff between two strings.
func ComputeLineDiffStrings(oldStr, newStr string, opts DiffOptions) DiffResult {
	return computeLineDiffFromLines(strings.Split(oldStr, "\n"), strings.Split(newStr, "\n"), opts)
}

// editOp is a single line of the edit script. For inserts oldIndex is the
// old line the insertion precedes; for deletes newIndex is the new line the
// deletion precedes.
type editOp struct {
	op       DiffType
	oldIndex int
	newIndex int
}

// computeLineDiffFromLines diffs pre-split lines in line mode.
func computeLineDiffFromLines(oldLines, newLines []string, opts DiffOptions) DiffResult {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = opts.Timeout

	// Terminating every line keeps the last line comparable with the others.
	oldText := strings.Join(oldLines, "\n") + "\n"
	newText := strings.Join(newLines, "\n") + "\n"

	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	ops := toEditOps(diffs)

	return DiffResult{
		Hunks:        buildHunks(oldLines, newLines, ops, opts.ContextLines),
		OldLineCount: len(oldLines),
		NewLineCount: len(newLines),
	}
}

// toEditOps expands line-mode diffs into one op per line.
func toEditOps(diffs []diffmatchpatch.Diff) []editOp {
	var ops []editOp
	oldIndex, newIndex := 0, 0

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			n++
		}

		for i := 0; i < n; i++ {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, editOp{op: DiffEqual, oldIndex: oldIndex, newIndex: newIndex})
				oldIndex++
				newIndex++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, editOp{op: DiffDelete, oldIndex: oldIndex, newIndex: newIndex})
				oldIndex++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, editOp{op: DiffInsert, oldIndex: oldIndex, newIndex: newIndex})
				newIndex++
			}
		}
	}
	return ops
}

// buildHunks groups the edit script into hunks. Changes separated by at
// most 2*contextLines unchanged lines share a hunk.
func buildHunks(oldLines, newLines []string, ops []editOp, contextLines int) []LineDiff {
	if contextLines < 0 {
		contextLines = 0
	}

	var hunks []LineDiff
	prevEnd := 0

	for i := 0; i < len(ops); i++ {
		if ops[i].op == DiffEqual {
			continue
		}

		start := max(i-contextLines, prevEnd)

		last := i
		j := i + 1
		for ; j < len(ops); j++ {
			if ops[j].op != DiffEqual {
				last = j
				continue
			}
			if j-last > 2*contextLines {
				break
			}
		}
		end := min(last+contextLines+1, len(ops))

		hunk := LineDiff{
			OldStart: ops[start].oldIndex,
			NewStart: ops[start].newIndex,
		}
		for _, op := range ops[start:end] {
			switch op.op {
			case DiffEqual:
				hunk.Lines = append(hunk.Lines, op.op.prefix()+oldLines[op.oldIndex])
				hunk.OldCount++
				hunk.NewCount++
			case DiffDelete:
				hunk.Lines = append(hunk.Lines, op.op.prefix()+oldLines[op.oldIndex])
				hunk.OldCount++
			case DiffInsert:
				hunk.Lines = append(hunk.Lines, op.op.prefix()+newLines[op.newIndex])
				hunk.NewCount++
			}
		}
		hunks = append(hunks, hunk)

		prevEnd = end
		i = end - 1
	}

	return hunks
}

// UnifiedDiff returns the diff in unified diff format.
func UnifiedDiff(result DiffResult, oldName, newName string) string {
	if !result.HasChanges() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- ")
	sb.WriteString(oldName)
	sb.WriteString("\n")
	sb.WriteString("+++ ")
	sb.WriteString(newName)
	sb.WriteString("\n")

	for _, hunk := range result.Hunks {
		sb.WriteString("@@ -")
		sb.WriteString(hunkRange(hunk.OldStart, hunk.OldCount))
		sb.WriteString(" +")
		sb.WriteString(hunkRange(hunk.NewStart, hunk.NewCount))
		sb.WriteString(" @@\n")

		for _, line := range hunk.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// hunkRange formats a 0-indexed start and count as a 1-indexed range.
// An empty range names the line before it.
func hunkRange(start, count int) string {
	if count == 0 {
		return strconv.Itoa(start) + ",0"
	}
	return strconv.Itoa(start+1) + "," + strconv.Itoa(count)
}
