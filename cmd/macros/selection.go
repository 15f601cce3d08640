package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// parseSelection parses "L:C-L:C" or "L:C" with 1-based lines and columns.
// A single point yields an empty selection at that point.
func parseSelection(s string) (buffer.PointRange, error) {
	startText, endText, hasEnd := strings.Cut(s, "-")

	start, err := parsePoint(startText)
	if err != nil {
		return buffer.PointRange{}, fmt.Errorf("selection %q: %w", s, err)
	}
	end := start
	if hasEnd {
		if end, err = parsePoint(endText); err != nil {
			return buffer.PointRange{}, fmt.Errorf("selection %q: %w", s, err)
		}
	}
	return buffer.PointRange{Start: start, End: end}, nil
}

func parsePoint(s string) (buffer.Point, error) {
	lineText, colText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return buffer.Point{}, fmt.Errorf("expected LINE:COLUMN, got %q", s)
	}
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 1 {
		return buffer.Point{}, fmt.Errorf("invalid line %q", lineText)
	}
	col, err := strconv.Atoi(colText)
	if err != nil || col < 1 {
		return buffer.Point{}, fmt.Errorf("invalid column %q", colText)
	}
	return buffer.Point{Line: line - 1, Column: col - 1}, nil
}
