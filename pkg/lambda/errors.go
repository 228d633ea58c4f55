package lambda

import "fmt"

const (
	illFormedMessage         = "Expression is ill-formed"
	doubleAbstractionMessage = "Variable used under lambda is already bound"
)

// ParserError is the base of every syntax error. Position is a rune offset
// into the text handed to the parser.
type ParserError struct {
	Message  string
	Position int
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at symbol %d", e.Message, e.Position)
}

// IllFormedError reports a missing terminator, unbalanced grouping or an
// empty term.
type IllFormedError struct {
	ParserError
}

// Unwrap exposes the embedded ParserError to errors.As.
func (e *IllFormedError) Unwrap() error { return &e.ParserError }

// DoubleAbstractionError reports a binder that is already bound by an
// enclosing abstraction.
type DoubleAbstractionError struct {
	ParserError
}

// Unwrap exposes the embedded ParserError to errors.As.
func (e *DoubleAbstractionError) Unwrap() error { return &e.ParserError }

func illFormed(pos int) error {
	return &IllFormedError{ParserError{Message: illFormedMessage, Position: pos}}
}

func doubleAbstraction(pos int) error {
	return &DoubleAbstractionError{ParserError{Message: doubleAbstractionMessage, Position: pos}}
}

// IllFormedAt builds an IllFormedError for callers outside the parser that
// validate surrounding syntax, such as definition lines.
func IllFormedAt(pos int) error { return illFormed(pos) }
