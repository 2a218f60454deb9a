package evaltest

import (
	"fmt"
	"reflect"

	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/parse"
)

type errorMatcher interface{ matchError(error) bool }

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}

// AnyError is an error that can be passed to Case.Throws to match any error.
var AnyError anyError

type anyError struct{}

func (anyError) Error() string           { return "any error" }
func (anyError) matchError(e error) bool { return e != nil }

// AnyParseError is an error that can be passed to Case.Throws to match any
// error from the lexer or the parser.
var AnyParseError anyParseError

type anyParseError struct{}

func (anyParseError) Error() string { return "any parse error" }
func (anyParseError) matchError(e error) bool {
	return parse.GetError(e) != nil || parse.GetLexError(e) != nil
}

// ErrorWithCode returns an error that can be passed to Case.Throws to match a
// diagnostic with the given code, of any category.
func ErrorWithCode(code diag.Code) error { return errWithCode{code} }

type errWithCode struct{ code diag.Code }

func (e errWithCode) Error() string { return "error with code " + string(e.code) }

func (e errWithCode) matchError(e2 error) bool {
	d, ok := diag.AsDiagnostic(e2)
	return ok && d.Entry().Code == e.code
}

// ErrorAt returns an error that can be passed to Case.Throws to match a
// diagnostic with the given code, line and column.
func ErrorAt(code diag.Code, line, col int) error { return errAt{code, line, col} }

type errAt struct {
	code      diag.Code
	line, col int
}

func (e errAt) Error() string {
	return fmt.Sprintf("error with code %s at line %d, column %d", e.code, e.line, e.col)
}

func (e errAt) matchError(e2 error) bool {
	d, ok := diag.AsDiagnostic(e2)
	if !ok {
		return false
	}
	entry := d.Entry()
	return entry.Code == e.code && entry.Line == e.line && entry.Column == e.col
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error whose Error method returns msg.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}
