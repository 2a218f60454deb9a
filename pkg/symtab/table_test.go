package symtab

import (
	"errors"
	"testing"

	"src.cmdl.sh/pkg/eval/vals"
)

func TestTable_Stack(t *testing.T) {
	tab := NewTable(nil)
	global := tab.Current()
	if tab.Depth() != 1 || tab.Global() != global {
		t.Fatalf("new table has depth %d", tab.Depth())
	}
	if err := tab.Pop(); err != ErrPopGlobal {
		t.Errorf("Pop on global -> %v, want ErrPopGlobal", err)
	}

	tab.Push(nil)
	inner := tab.Current()
	if tab.Depth() != 2 || inner.Parent() != global {
		t.Errorf("Push(nil) did not push a child of the global scope")
	}
	if err := tab.Pop(); err != nil {
		t.Errorf("Pop -> %v", err)
	}
	if tab.Current() != global {
		t.Errorf("Current after Pop is not the global scope")
	}
}

func TestTable_FindFollowsParents(t *testing.T) {
	tab := NewTable(nil)
	tab.Insert("x", vals.Int(1), pos(1, 1))

	tab.Push(nil)
	tab.Insert("y", vals.Int(2), pos(2, 1))
	if sym, err := tab.Find("x", pos(3, 1)); err != nil || sym.Value != vals.Int(1) {
		t.Errorf("Find(x) in child -> %v, %v", sym, err)
	}

	// A pushed scope without a parent does not see the global scope, even
	// though the global scope is below it on the stack.
	tab.Push(NewScope(nil))
	var undefined *UndefinedError
	if _, err := tab.Find("x", pos(4, 1)); !errors.As(err, &undefined) {
		t.Errorf("Find(x) in detached scope -> %v, want UndefinedError", err)
	}
}

func TestTable_Change(t *testing.T) {
	tab := NewTable(nil)
	tab.Insert("x", vals.Int(1), pos(1, 8))

	if err := tab.Change("x", vals.Int(5), pos(2, 5)); err != nil {
		t.Errorf("Change -> %v", err)
	}
	if sym, _ := tab.Find("x", pos(3, 1)); sym.Value != vals.Int(5) || sym.Line != 1 {
		t.Errorf("after Change, x is %v", sym)
	}

	err := tab.Change("x", vals.String("s"), pos(3, 5))
	var mismatch *KindMismatchError
	if !errors.As(err, &mismatch) || mismatch.Old != vals.IntKind || mismatch.New != vals.StringKind {
		t.Errorf("Change to string -> %v, want KindMismatchError", err)
	} else if got, want := err.Error(), `cannot assign string value to "x", which holds an int`; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}

	var undefined *UndefinedError
	if err := tab.Change("y", vals.Int(1), pos(4, 5)); !errors.As(err, &undefined) {
		t.Errorf("Change(y) -> %v, want UndefinedError", err)
	}

	// Change only looks at the current scope.
	tab.Push(nil)
	if err := tab.Change("x", vals.Int(2), pos(5, 5)); !errors.As(err, &undefined) {
		t.Errorf("Change(x) from child scope -> %v, want UndefinedError", err)
	}
}

func TestTable_Delete(t *testing.T) {
	tab := NewTable(nil)
	tab.Insert("x", vals.Int(1), pos(1, 1))
	tab.Push(nil)
	tab.Delete("x")
	if _, err := tab.Find("x", pos(2, 1)); err != nil {
		t.Errorf("Delete in child removed the global binding")
	}
	tab.Pop()
	tab.Delete("x")
	if _, err := tab.Find("x", pos(3, 1)); err == nil {
		t.Errorf("x still defined after Delete")
	}
}
