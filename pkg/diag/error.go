package diag

import (
	"errors"
	"fmt"
)

// ErrorTag is used to parameterize [Error] into different concrete types. The
// ErrorTag method is called with a zero value, and its return value names the
// error category, such as "Lexer Error".
type ErrorTag interface {
	ErrorTag() string
}

// Code identifies a specific kind of error within a category.
type Code string

// Error is an error with a code and a source context.
//
// Each package that produces such errors defines its own tag type, so that
// errors from different stages have distinct Go types.
type Error[T ErrorTag] struct {
	Code    Code
	Message string
	Context Context
}

// NewError creates an Error for the given range of a source.
func NewError[T ErrorTag](code Code, name, src string, r Ranger, message string) *Error[T] {
	return &Error[T]{code, message, *NewContext(name, src, r)}
}

// Category returns the category of the error, as named by its tag type.
func (e *Error[T]) Category() string {
	var tag T
	return tag.ErrorTag()
}

// Error returns a plain text representation of the error, in the form
// "<Category> at line L, column C: <message>".
func (e *Error[T]) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s",
		e.Category(), e.Context.Line, e.Context.Column, e.Message)
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error, highlighting the culprit within its source line.
func (e *Error[T]) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n",
		e.Category(), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

// Entry returns a flattened view of the error.
func (e *Error[T]) Entry() Entry {
	return Entry{
		Category: e.Category(), Code: e.Code,
		Name: e.Context.Name, Line: e.Context.Line, Column: e.Context.Column,
		Ranging: e.Context.Ranging, Message: e.Message,
	}
}

// Entry is a flattened view of an [Error], suitable for serialization.
type Entry struct {
	Category string
	Code     Code
	Name     string
	Line     int
	Column   int
	Ranging
	Message string
}

// Diagnostic is satisfied by all instantiations of *[Error].
type Diagnostic interface {
	error
	Shower
	Ranger
	Category() string
	Entry() Entry
}

// AsDiagnostic finds the first error in err's chain that is a [Diagnostic].
func AsDiagnostic(err error) (Diagnostic, bool) {
	var d Diagnostic
	ok := errors.As(err, &d)
	return d, ok
}

// Variables controlling the style of the message in Show.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)
