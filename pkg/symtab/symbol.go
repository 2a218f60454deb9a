// Package symtab implements the symbol table of cmdl: scopes that bind names
// to values, and a stack of such scopes.
package symtab

import (
	"fmt"

	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/token"
)

// Symbol is a named value, along with the position where it was defined.
type Symbol struct {
	Name  string
	Value vals.Value
	// Line and Column locate the definition.
	Line, Column int
}

// Kind returns the kind of the symbol's value.
func (s *Symbol) Kind() vals.Kind { return s.Value.Kind() }

// Pos returns the position of the definition.
func (s *Symbol) Pos() token.Pos { return token.Pos{Line: s.Line, Column: s.Column} }

// DuplicateError is returned when defining a name that is already defined in
// the same scope.
type DuplicateError struct {
	Name string
	// Position of the rejected definition.
	Pos token.Pos
	// Position of the existing definition.
	Prev token.Pos
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("identifier %q is already defined at %s", e.Name, e.Prev)
}

// UndefinedError is returned when a name cannot be resolved.
type UndefinedError struct {
	Name string
	Pos  token.Pos
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("identifier %q is not defined", e.Name)
}

// KindMismatchError is returned when changing the value of a symbol to a
// value of a different kind.
type KindMismatchError struct {
	Name     string
	Pos      token.Pos
	Old, New vals.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("cannot assign %s value to %q, which holds %s",
		e.New, e.Name, indefinite(e.Old))
}

func indefinite(k vals.Kind) string {
	if k == vals.IntKind {
		return "an int"
	}
	return "a " + k.String()
}
