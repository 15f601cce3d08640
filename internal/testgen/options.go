package testgen

import (
	"fmt"
	"strings"
)

// UnresolvedPolicy decides what happens to a container whose block runs to
// the end of the document without a line closing it.
type UnresolvedPolicy uint8

const (
	// UnresolvedSkip emits no closing for the container.
	UnresolvedSkip UnresolvedPolicy = iota
	// UnresolvedCloseAtEnd appends the closing after the last line.
	UnresolvedCloseAtEnd
)

// String returns the configuration name of the policy.
func (p UnresolvedPolicy) String() string {
	switch p {
	case UnresolvedSkip:
		return "skip"
	case UnresolvedCloseAtEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseUnresolvedPolicy parses a configuration value.
func ParseUnresolvedPolicy(s string) (UnresolvedPolicy, error) {
	switch strings.ToLower(s) {
	case "", "skip":
		return UnresolvedSkip, nil
	case "end", "end-of-document", "eof":
		return UnresolvedCloseAtEnd, nil
	default:
		return UnresolvedSkip, fmt.Errorf("%w: unresolved policy %q", ErrInvalidOption, s)
	}
}

// QuotePolicy decides how content is placed between the label quotes.
type QuotePolicy uint8

const (
	// QuoteVerbatim copies content unchanged.
	QuoteVerbatim QuotePolicy = iota
	// QuoteEscape backslash-escapes backslashes and double quotes.
	QuoteEscape
)

// String returns the configuration name of the policy.
func (p QuotePolicy) String() string {
	switch p {
	case QuoteVerbatim:
		return "verbatim"
	case QuoteEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// ParseQuotePolicy parses a configuration value.
func ParseQuotePolicy(s string) (QuotePolicy, error) {
	switch strings.ToLower(s) {
	case "", "verbatim":
		return QuoteVerbatim, nil
	case "escape":
		return QuoteEscape, nil
	default:
		return QuoteVerbatim, fmt.Errorf("%w: quote policy %q", ErrInvalidOption, s)
	}
}

// Options configures generation.
type Options struct {
	// Containers lists the letters that open a nested block.
	Containers string

	// Leaves lists the letters that produce a self-closed block.
	Leaves string

	// Templates renders the generated lines.
	Templates Templates

	// Unresolved decides the fate of containers running to document end.
	Unresolved UnresolvedPolicy

	// Quotes decides how content is quoted.
	Quotes QuotePolicy
}

// DefaultOptions returns the stock letter sets and Ruby templates.
func DefaultOptions() Options {
	return Options{
		Containers: "CDS",
		Leaves:     "IT",
		Templates:  DefaultTemplates(),
		Unresolved: UnresolvedSkip,
		Quotes:     QuoteVerbatim,
	}
}

// Option is a functional option for Generate.
type Option func(*Options)

// WithUnresolvedPolicy sets the unresolved closing policy.
func WithUnresolvedPolicy(p UnresolvedPolicy) Option {
	return func(o *Options) {
		o.Unresolved = p
	}
}

// WithQuotePolicy sets the quote policy.
func WithQuotePolicy(p QuotePolicy) Option {
	return func(o *Options) {
		o.Quotes = p
	}
}

// WithTemplates replaces the output templates.
func WithTemplates(t Templates) Option {
	return func(o *Options) {
		o.Templates = t
	}
}

// WithLetters replaces the container and leaf letter sets.
// Empty arguments keep the current set.
func WithLetters(containers, leaves string) Option {
	return func(o *Options) {
		if containers != "" {
			o.Containers = containers
		}
		if leaves != "" {
			o.Leaves = leaves
		}
	}
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// Validate checks that the letter sets are uppercase and disjoint and that
// every template carries its placeholder.
func (o Options) Validate() error {
	for _, set := range []string{o.Containers, o.Leaves} {
		for i := 0; i < len(set); i++ {
			if set[i] < 'A' || set[i] > 'Z' {
				return fmt.Errorf("%w: letter %q is not A-Z", ErrInvalidOption, set[i])
			}
		}
	}
	for i := 0; i < len(o.Containers); i++ {
		if strings.IndexByte(o.Leaves, o.Containers[i]) >= 0 {
			return fmt.Errorf("%w: letter %q is both container and leaf", ErrInvalidOption, o.Containers[i])
		}
	}
	return o.Templates.Validate()
}

// kind classifies a type letter.
type kind uint8

const (
	kindReserved kind = iota
	kindContainer
	kindLeaf
)

func (o Options) kindOf(letter byte) kind {
	switch {
	case strings.IndexByte(o.Containers, letter) >= 0:
		return kindContainer
	case strings.IndexByte(o.Leaves, letter) >= 0:
		return kindLeaf
	default:
		return kindReserved
	}
}
