package eval

import (
	"errors"
	"fmt"

	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/parse"
	"src.cmdl.sh/pkg/token"
)

// Error is an error that occurs while running a program.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "Interpreter Error" }

// Codes of Error.
const (
	ArityMismatch       diag.Code = "ArityMismatch"
	WrongArgumentKind   diag.Code = "WrongArgumentKind"
	DuplicateIdentifier diag.Code = "DuplicateIdentifier"
	UndefinedIdentifier diag.Code = "UndefinedIdentifier"
	IntegerOverflow     diag.Code = "IntegerOverflow"
	TypeMismatch        diag.Code = "TypeMismatch"
	DivisionByZero      diag.Code = "DivisionByZero"
	UnsupportedOperator diag.Code = "UnsupportedOperator"
)

// GetError returns the *Error in err's chain, or nil.
func GetError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Creates an Error located at tok.
func errorAt(src parse.Source, tok token.Token, code diag.Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Context: diag.Context{
			Name: src.Name, Source: src.Code,
			Ranging: diag.Ranging{From: tok.From, To: tok.To},
			Line:    tok.Line, Column: tok.Column,
		},
	}
}
