package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecipe marks documents that violate the RecipeMD grammar.
	ErrInvalidRecipe = errors.New("invalid recipe")
	// ErrInvariant marks token streams the parser cannot make sense of.
	// It points at a tokenizer or parser defect, never at the input.
	ErrInvariant = errors.New("recipe parser invariant violated")
)

// ParseError describes why a document was rejected.
type ParseError struct {
	Line    int // 1-based, 0 when unknown
	Message string
	kind    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v: line %d: %s", e.kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.kind, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.kind
}

// IsInvalid reports whether err rejects the document itself, as opposed to
// signalling a parser defect.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRecipe)
}

func invalidf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...), kind: ErrInvalidRecipe}
}

func invariantf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...), kind: ErrInvariant}
}
