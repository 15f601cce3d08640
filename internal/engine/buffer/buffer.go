package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrPointOutOfRange = errors.New("point out of range")
	ErrRangeInvalid    = errors.New("invalid range")
	ErrEditsOverlap    = errors.New("edits overlap")
	ErrUnknownEditKind = errors.New("unknown edit kind")
	ErrStaleBatch      = errors.New("batch computed against a stale revision")
	ErrReadOnly        = errors.New("buffer is read-only")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer holds a document as a slice of lines plus the primary selection.
// Lines are stored without terminators; the configured line ending is only
// used when the text is serialized again.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
	selection  PointRange
	path       string
	readOnly   bool
}

// NewBuffer creates a new empty buffer. An empty buffer has one empty line.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
// The line ending style is detected from the content unless an option sets it.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first so CRLF pairs are never split across reads
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := string(data)
	opts = append([]Option{WithDetectedLineEnding(text)}, opts...)
	return NewBufferFromString(text, opts...), nil
}

// splitLines normalizes every line ending to LF and splits on it.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content using the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line (without terminator).
// Returns "" if the line does not exist.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// Line returns the line at index i with its range.
// Out of range indices yield an empty Line carrying the requested index.
func (b *Buffer) Line(i int) Line {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineAt(b.lines, i)
}

// TextInRange returns the text covered by r, joined with LF.
func (b *Buffer) TextInRange(r PointRange) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return textInRange(b.lines, r)
}

// EndPoint returns the position just past the last character of the buffer.
func (b *Buffer) EndPoint() Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	last := len(b.lines) - 1
	return Point{Line: last, Column: len(b.lines[last])}
}

// Selection

// Selection returns the primary selection.
func (b *Buffer) Selection() PointRange {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection
}

// SetSelection sets the primary selection. Backwards selections are normalized.
func (b *Buffer) SetSelection(r PointRange) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r = r.Normalize()
	if !validPoint(b.lines, r.Start) || !validPoint(b.lines, r.End) {
		return ErrPointOutOfRange
	}
	b.selection = r
	return nil
}

// SelectedText returns the text of the primary selection.
func (b *Buffer) SelectedText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, _ := textInRange(b.lines, b.selection)
	return text
}

// Write Operations

// ApplyEdits validates every edit of the batch against the current lines and
// then applies them all at once. If any edit is invalid the buffer is left
// unchanged and the returned error wraps the sentinel describing the problem.
func (b *Buffer) ApplyEdits(batch Batch) error {
	if batch.IsEmpty() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if batch.Revision != 0 && batch.Revision != b.revisionID {
		return ErrStaleBatch
	}

	spans, err := resolveSpans(b.lines, batch.Edits)
	if err != nil {
		return err
	}

	text := strings.Join(b.lines, "\n")
	var sb strings.Builder
	sb.Grow(len(text))

	cursor := 0
	for _, s := range spans {
		sb.WriteString(text[cursor:s.start])
		sb.WriteString(s.text)
		cursor = s.end
	}
	sb.WriteString(text[cursor:])

	b.lines = splitLines(sb.String())
	b.revisionID = NewRevisionID()
	b.selection = clampRange(b.lines, b.selection)
	return nil
}

// span is an edit resolved to byte offsets in the LF-joined text.
type span struct {
	start  int
	end    int
	text   string
	insert bool
}

// resolveSpans converts edits into sorted, non-overlapping byte spans.
// Inserts sharing a point keep batch order and precede a replacement that
// starts at the same point.
func resolveSpans(lines []string, edits []Edit) ([]span, error) {
	starts := lineStarts(lines)
	offset := func(p Point) int {
		return starts[p.Line] + p.Column
	}

	spans := make([]span, 0, len(edits))
	for i, e := range edits {
		switch e.Kind {
		case EditReplace:
			if !e.Range.IsValid() {
				return nil, &EditError{Index: i, Edit: e, Err: ErrRangeInvalid}
			}
			if !validPoint(lines, e.Range.Start) || !validPoint(lines, e.Range.End) {
				return nil, &EditError{Index: i, Edit: e, Err: ErrPointOutOfRange}
			}
			spans = append(spans, span{
				start: offset(e.Range.Start),
				end:   offset(e.Range.End),
				text:  normalizeText(e.Text),
			})
		case EditInsert:
			if !validPoint(lines, e.At) {
				return nil, &EditError{Index: i, Edit: e, Err: ErrPointOutOfRange}
			}
			at := offset(e.At)
			spans = append(spans, span{
				start:  at,
				end:    at,
				text:   normalizeText(e.Text),
				insert: true,
			})
		default:
			return nil, &EditError{Index: i, Edit: e, Err: ErrUnknownEditKind}
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].insert && !spans[j].insert
	})

	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return nil, ErrEditsOverlap
		}
	}

	return spans, nil
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer holds a single empty line.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Path returns the file the buffer was loaded from, if any.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// IsReadOnly returns true if edits are rejected.
func (b *Buffer) IsReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		lines:      b.lines, // replaced, never mutated in place
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}

// Helpers shared with Snapshot

func lineAt(lines []string, i int) Line {
	if i < 0 || i >= len(lines) {
		return newLine(i, "")
	}
	return newLine(i, lines[i])
}

func lineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	offset := 0
	for i, l := range lines {
		starts[i] = offset
		offset += len(l) + 1
	}
	return starts
}

func validPoint(lines []string, p Point) bool {
	if p.Line < 0 || p.Line >= len(lines) {
		return false
	}
	return p.Column >= 0 && p.Column <= len(lines[p.Line])
}

func textInRange(lines []string, r PointRange) (string, error) {
	r = r.Normalize()
	if !validPoint(lines, r.Start) || !validPoint(lines, r.End) {
		return "", ErrPointOutOfRange
	}
	if r.IsSingleLine() {
		return lines[r.Start.Line][r.Start.Column:r.End.Column], nil
	}

	var sb strings.Builder
	sb.WriteString(lines[r.Start.Line][r.Start.Column:])
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(lines[i])
	}
	sb.WriteByte('\n')
	sb.WriteString(lines[r.End.Line][:r.End.Column])
	return sb.String(), nil
}

func clampPoint(lines []string, p Point) Point {
	if p.Line < 0 {
		return Point{}
	}
	if p.Line >= len(lines) {
		last := len(lines) - 1
		return Point{Line: last, Column: len(lines[last])}
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if p.Column > len(lines[p.Line]) {
		p.Column = len(lines[p.Line])
	}
	return p
}

func clampRange(lines []string, r PointRange) PointRange {
	return PointRange{Start: clampPoint(lines, r.Start), End: clampPoint(lines, r.End)}
}
