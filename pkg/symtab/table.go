package symtab

import (
	"errors"

	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/token"
)

// ErrPopGlobal is returned when popping the global scope off a Table.
var ErrPopGlobal = errors.New("cannot pop the global scope")

// Table is a stack of scopes. The bottom of the stack is the global scope and
// the top is the current scope.
type Table struct {
	scopes []*Scope
}

// NewTable creates a Table containing only the given global scope. If global
// is nil, a new empty scope is used.
func NewTable(global *Scope) *Table {
	if global == nil {
		global = NewScope(nil)
	}
	return &Table{[]*Scope{global}}
}

// Push makes s the current scope. If s is nil, a new scope whose parent is the
// current scope is pushed.
func (t *Table) Push(s *Scope) {
	if s == nil {
		s = NewScope(t.Current())
	}
	t.scopes = append(t.scopes, s)
}

// Pop removes the current scope. The global scope is never removed.
func (t *Table) Pop() error {
	if len(t.scopes) == 1 {
		return ErrPopGlobal
	}
	t.scopes[len(t.scopes)-1] = nil
	t.scopes = t.scopes[:len(t.scopes)-1]
	return nil
}

// Current returns the current scope.
func (t *Table) Current() *Scope { return t.scopes[len(t.scopes)-1] }

// Global returns the global scope.
func (t *Table) Global() *Scope { return t.scopes[0] }

// Depth returns the number of scopes on the stack.
func (t *Table) Depth() int { return len(t.scopes) }

// Find resolves a name, starting at the current scope and following parent
// links. The chain of parents need not be the same as the stack.
func (t *Table) Find(name string, pos token.Pos) (*Symbol, error) {
	for s := t.Current(); s != nil; s = s.parent {
		if sym := s.Lookup(name); sym != nil {
			return sym, nil
		}
	}
	return nil, &UndefinedError{Name: name, Pos: pos}
}

// Insert defines a name in the current scope.
func (t *Table) Insert(name string, v vals.Value, pos token.Pos) error {
	return t.Current().Insert(name, v, pos)
}

// Change replaces the value of a name defined in the current scope. The new
// value must be of the same kind as the old one.
func (t *Table) Change(name string, v vals.Value, pos token.Pos) error {
	sym, err := t.Current().Find(name, pos)
	if err != nil {
		return err
	}
	if sym.Kind() != v.Kind() {
		return &KindMismatchError{Name: name, Pos: pos, Old: sym.Kind(), New: v.Kind()}
	}
	sym.Value = v
	return nil
}

// Delete removes a name from the current scope, if it is defined there.
func (t *Table) Delete(name string) { t.Current().Delete(name) }
