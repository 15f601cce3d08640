package testgen

import "regexp"

var (
	annotationPattern = regexp.MustCompile(`^(\s*)([A-Z]): (.*)$`)
	indentPattern     = regexp.MustCompile(`^\s*`)
)

// Match is the result of classifying an annotation line.
type Match struct {
	Indent  string // Leading whitespace, verbatim
	Letter  byte   // Single uppercase type letter
	Content string // Everything after "<Letter>: "
}

// Width returns the indentation width of the match.
func (m Match) Width() int {
	return len(m.Indent)
}

// Classify matches text against the annotation grammar.
// It returns false for lines that are not annotations; that is not an error.
func Classify(text string) (Match, bool) {
	groups := annotationPattern.FindStringSubmatch(text)
	if groups == nil {
		return Match{}, false
	}
	return Match{
		Indent:  groups[1],
		Letter:  groups[2][0],
		Content: groups[3],
	}, true
}

// IndentWidth returns the number of leading whitespace characters of text.
// Tabs and spaces count the same.
func IndentWidth(text string) int {
	return len(indentPattern.FindString(text))
}
