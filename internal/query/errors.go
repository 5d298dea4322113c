package query

import "fmt"

// SyntaxError reports a malformed search expression. Offset is the 0-based
// byte offset into the input at which parsing failed; for a missing trailing
// token it equals the input length.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
}

// UnknownFieldError reports a condition referencing a field that none of
// the probed models resolves.
type UnknownFieldError struct {
	Table string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("table '%s' does not have a field named '%s'", e.Table, e.Field)
}

// TypeMismatchError reports a literal value that cannot be coerced to the
// declared kind of its field.
type TypeMismatchError struct {
	Field    string
	Expected string
	Value    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %s expects %s value, received %s instead", e.Field, e.Expected, e.Value)
}
