package hdl

import (
	"errors"
	"fmt"
)

var (
	// ErrLexical matches every LexicalError through errors.Is.
	ErrLexical = errors.New("lexical error")
	// ErrStructural matches every StructuralError through errors.Is.
	ErrStructural = errors.New("structural error")
)

// DefaultErrorLabel names structural errors raised without an explicit label.
const DefaultErrorLabel = "error"

// LexicalError reports a character the lexer does not recognize.
type LexicalError struct {
	Line   int
	Column int
	Offset int
	Char   rune
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("There was an unidentified character @ l%d : p%d", e.Line, e.Column)
}

func (e *LexicalError) Is(target error) bool {
	return target == ErrLexical
}

// StructuralError reports a malformed declaration, block or expression.
type StructuralError struct {
	Label string
	Msg   string
	Pos   Position
	// Token is the offending token value; empty at end of input.
	Token string
	EOF   bool
}

func (e *StructuralError) Error() string {
	label := e.Label
	if label == "" {
		label = DefaultErrorLabel
	}
	if e.EOF {
		return fmt.Sprintf("%s: %s at end of input", label, e.Msg)
	}
	return fmt.Sprintf("%s: %s @ l%d : p%d", label, e.Msg, e.Pos.Line, e.Pos.Column)
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// WithLabel returns a copy of the error carrying the caller-supplied label.
func (e *StructuralError) WithLabel(label string) *StructuralError {
	c := *e
	c.Label = label
	return &c
}
