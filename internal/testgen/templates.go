package testgen

import (
	"fmt"
	"strings"
)

// Token is the placeholder replaced by the annotation content.
const Token = "$TOKEN"

// Templates holds the text of generated lines, without indentation.
type Templates struct {
	Container string // Opening line of a container, e.g. `context "$TOKEN" do`
	Leaf      string // Opening line of a leaf, e.g. `test "$TOKEN" do`
	Closing   string // Closing token shared by both, e.g. `end`
}

// DefaultTemplates returns the Ruby minitest/shoulda templates.
func DefaultTemplates() Templates {
	return Templates{
		Container: `context "$TOKEN" do`,
		Leaf:      `test "$TOKEN" do`,
		Closing:   "end",
	}
}

// Validate checks that both opening templates carry the placeholder.
func (t Templates) Validate() error {
	if !strings.Contains(t.Container, Token) {
		return fmt.Errorf("%w: container template lacks %s", ErrInvalidOption, Token)
	}
	if !strings.Contains(t.Leaf, Token) {
		return fmt.Errorf("%w: leaf template lacks %s", ErrInvalidOption, Token)
	}
	if t.Closing == "" {
		return fmt.Errorf("%w: empty closing template", ErrInvalidOption)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// label prepares content for substitution.
func (o Options) label(content string) string {
	if o.Quotes == QuoteEscape {
		return quoteEscaper.Replace(content)
	}
	return content
}

// fill substitutes the first placeholder only, leaving any "$" sequences in
// the content untouched.
func fill(template, label string) string {
	return strings.Replace(template, Token, label, 1)
}

// renderContainer returns the opening line of a container.
func (o Options) renderContainer(m Match) string {
	return m.Indent + fill(o.Templates.Container, o.label(m.Content))
}

// renderLeaf returns the two-line self-closed block of a leaf.
func (o Options) renderLeaf(m Match) string {
	return m.Indent + fill(o.Templates.Leaf, o.label(m.Content)) + "\n" + m.Indent + o.Templates.Closing
}

// renderClosing returns the text inserted before a container's target line.
func (o Options) renderClosing(indent string) string {
	return indent + o.Templates.Closing + "\n"
}

// renderTrailingClosing returns the text appended after the last line when
// a container is closed at the end of the document.
func (o Options) renderTrailingClosing(indent string) string {
	return "\n" + indent + o.Templates.Closing
}
