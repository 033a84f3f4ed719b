package feature

import (
	"errors"
	"fmt"
)

// ErrEmptyAttributes is returned when an attribute column is empty or
// contains only whitespace.
var ErrEmptyAttributes = errors.New("empty attribute field")

// ParseError describes a malformed input line. It carries enough context
// (line number, field name, offending text) to be actionable without
// re-reading the input.
type ParseError struct {
	Line  int
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s: %s", e.Line, e.Field, e.Msg)
}

// InvalidField builds a ParseError for the given line and field.
func InvalidField(line int, field, msg string) *ParseError {
	return &ParseError{Line: line, Field: field, Msg: msg}
}

// MissingColumn builds a ParseError for a missing mandatory column.
func MissingColumn(line int, field string) *ParseError {
	return &ParseError{Line: line, Field: field, Msg: "missing " + field + " column in input line"}
}
