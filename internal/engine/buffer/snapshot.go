package buffer

import "strings"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
}

// NewSnapshotFromLines builds a snapshot directly from lines.
// The slice is copied.
func NewSnapshotFromLines(lines []string) *Snapshot {
	cp := make([]string, len(lines))
	copy(cp, lines)
	if len(cp) == 0 {
		cp = []string{""}
	}
	return &Snapshot{lines: cp, lineEnding: LineEndingLF}
}

// Text returns the full snapshot content using the buffer's line ending.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, s.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a specific line (without terminator).
func (s *Snapshot) LineText(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// Line returns the line at index i with its range.
func (s *Snapshot) Line(i int) Line {
	return lineAt(s.lines, i)
}

// Lines returns a copy of all lines.
func (s *Snapshot) Lines() []string {
	cp := make([]string, len(s.lines))
	copy(cp, s.lines)
	return cp
}

// TextInRange returns the text covered by r, joined with LF.
func (s *Snapshot) TextInRange(r PointRange) (string, error) {
	return textInRange(s.lines, r)
}

// EndPoint returns the position just past the last character.
func (s *Snapshot) EndPoint() Point {
	last := len(s.lines) - 1
	return Point{Line: last, Column: len(s.lines[last])}
}

// RevisionID returns the revision ID at the time of the snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}
