package plugin

import (
	"fmt"

	"astrie/internal/errors"
)

// ParseError is a syntax error reported by a front end.
type ParseError struct {
	Notation string
	// Line and Column are 1-based; zero when unknown.
	Line   int
	Column int
	Msg    string
	// Err is the underlying decoder error, if any.
	Err error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Notation, e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Notation, e.Line, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Notation, e.Msg)
	}
}

// Is makes every ParseError match errors.ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == errors.ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError returns a ParseError at line:col.
func NewParseError(notation string, line, col int, format string, args ...any) *ParseError {
	return &ParseError{
		Notation: notation,
		Line:     line,
		Column:   col,
		Msg:      fmt.Sprintf(format, args...),
	}
}
