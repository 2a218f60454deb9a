package parse

import (
	"errors"

	"src.cmdl.sh/pkg/diag"
)

// LexError is an error produced by the lexer.
type LexError = diag.Error[LexErrorTag]

// LexErrorTag parameterizes [diag.Error] to define [LexError].
type LexErrorTag struct{}

func (LexErrorTag) ErrorTag() string { return "Lexer Error" }

// Error is an error produced by the parser for a structural violation.
// Errors from the lexer are propagated as [LexError].
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "Parser Error" }

// Codes of LexError.
const (
	InvalidIdentifier   diag.Code = "InvalidIdentifier"
	UnexpectedEOF       diag.Code = "UnexpectedEOF"
	UnexpectedCharacter diag.Code = "UnexpectedCharacter"
)

// Codes of Error.
const (
	ArityMismatch diag.Code = "ArityMismatch"
	StrayToken    diag.Code = "StrayToken"
)

// GetLexError returns the *LexError in err's chain, or nil.
func GetLexError(err error) *LexError {
	var e *LexError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// GetError returns the *Error in err's chain, or nil.
func GetError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
