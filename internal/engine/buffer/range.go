package buffer

import "fmt"

// PointRange represents a range using line/column positions.
// Start is inclusive, End is exclusive.
type PointRange struct {
	Start Point // Inclusive start position
	End   Point // Exclusive end position
}

// NewPointRange creates a new PointRange from start and end points.
func NewPointRange(start, end Point) PointRange {
	return PointRange{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r PointRange) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start.String(), r.End.String())
}

// IsEmpty returns true if start equals end.
func (r PointRange) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r PointRange) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Contains returns true if the given point is within the range.
func (r PointRange) Contains(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// IsSingleLine returns true if the range spans only one line.
func (r PointRange) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Normalize returns the range with Start <= End.
// Selections made backwards have their anchor after the active point.
func (r PointRange) Normalize() PointRange {
	if r.End.Before(r.Start) {
		return PointRange{Start: r.End, End: r.Start}
	}
	return r
}

// Line is one line of a document together with its positional span.
// The span covers the line content only, never the line terminator.
type Line struct {
	Index int        // 0-indexed line number
	Text  string     // Line content without the terminator
	Range PointRange // [(Index:0), (Index:len(Text)))
}

// Start returns the position of the first character of the line.
func (l Line) Start() Point {
	return l.Range.Start
}

// End returns the position just past the last character of the line.
func (l Line) End() Point {
	return l.Range.End
}

// IsBlank returns true if the line is empty.
func (l Line) IsBlank() bool {
	return l.Text == ""
}

func newLine(index int, text string) Line {
	return Line{
		Index: index,
		Text:  text,
		Range: PointRange{
			Start: Point{Line: index, Column: 0},
			End:   Point{Line: index, Column: len(text)},
		},
	}
}
