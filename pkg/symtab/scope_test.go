package symtab

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/token"
	"src.cmdl.sh/pkg/tt"
)

func pos(line, col int) token.Pos { return token.Pos{Line: line, Column: col} }

func TestHash(t *testing.T) {
	tt.Test(t, tt.Fn(hash),
		tt.Args("").Rets(uint32(0)),
		tt.Args("a").Rets(uint32(97)),
		tt.Args("ab").Rets(uint32(97*37+98)),
	)
}

func TestScope_InsertAndFind(t *testing.T) {
	s := NewScope(nil)
	if err := s.Insert("x", vals.Int(1), pos(1, 8)); err != nil {
		t.Fatal(err)
	}
	sym, err := s.Find("x", pos(2, 7))
	if err != nil {
		t.Fatal(err)
	}
	want := &Symbol{Name: "x", Value: vals.Int(1), Line: 1, Column: 8}
	if diff := cmp.Diff(want, sym); diff != "" {
		t.Errorf("Find (-want +got):\n%s", diff)
	}
	if s.Lookup("y") != nil {
		t.Errorf("Lookup(y) -> non-nil, want nil")
	}

	_, err = s.Find("y", pos(3, 1))
	var undefined *UndefinedError
	if !errors.As(err, &undefined) || *undefined != (UndefinedError{"y", pos(3, 1)}) {
		t.Errorf("Find(y) -> %v, want UndefinedError", err)
	}
	if got, want := err.Error(), `identifier "y" is not defined`; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
}

func TestScope_Duplicate(t *testing.T) {
	s := NewScope(nil)
	s.Insert("x", vals.Int(1), pos(1, 8))
	err := s.Insert("x", vals.String("again"), pos(2, 8))

	want := &DuplicateError{Name: "x", Pos: pos(2, 8), Prev: pos(1, 8)}
	if diff := cmp.Diff(want, err); diff != "" {
		t.Errorf("Insert (-want +got):\n%s", diff)
	}
	if got, want := err.Error(), `identifier "x" is already defined at line 1, column 8`; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
	if v := s.Lookup("x").Value; v != vals.Int(1) {
		t.Errorf("value after rejected Insert is %v, want 1", v)
	}
}

func TestScope_InsertIgnoresParent(t *testing.T) {
	parent := NewScope(nil)
	parent.Insert("x", vals.Int(1), pos(1, 1))
	child := NewScope(parent)
	if err := child.Insert("x", vals.Int(2), pos(2, 1)); err != nil {
		t.Errorf("Insert shadowing parent -> %v, want nil", err)
	}
	if child.Parent() != parent {
		t.Errorf("Parent() is wrong")
	}
}

func TestScope_Delete(t *testing.T) {
	s := NewScope(nil)
	// All of these hash to bucket 1 of 8.
	for _, name := range []string{"a", "i", "q"} {
		s.Insert(name, vals.Int(0), pos(1, 1))
	}
	s.Delete("i")
	s.Delete("i")
	s.Delete("nonexistent")

	if diff := cmp.Diff([]string{"a", "q"}, s.Names()); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	if s.Len() != 2 {
		t.Errorf("Len() -> %d, want 2", s.Len())
	}
	if s.Lookup("a") == nil || s.Lookup("q") == nil {
		t.Errorf("chain broken after Delete")
	}
}

func TestScope_Resize(t *testing.T) {
	s := NewScope(nil)
	for i := 0; i < 6; i++ {
		s.Insert(fmt.Sprintf("v%d", i), vals.Int(i), pos(1, 1))
	}
	if len(s.buckets) != 8 {
		t.Errorf("got %d buckets at load 0.75, want 8", len(s.buckets))
	}
	s.Insert("v6", vals.Int(6), pos(1, 1))
	if len(s.buckets) != 16 {
		t.Errorf("got %d buckets after exceeding load factor, want 16", len(s.buckets))
	}

	for i := 7; i < 100; i++ {
		s.Insert(fmt.Sprintf("v%d", i), vals.Int(i), pos(1, 1))
	}
	if s.Len() != 100 {
		t.Errorf("Len() -> %d, want 100", s.Len())
	}
	for i := 0; i < 100; i++ {
		sym := s.Lookup(fmt.Sprintf("v%d", i))
		if sym == nil || sym.Value != vals.Int(i) {
			t.Errorf("v%d -> %v after resizing", i, sym)
		}
	}
	if float64(s.Len())/float64(len(s.buckets)) > maxLoadFactor {
		t.Errorf("load factor exceeded with %d buckets", len(s.buckets))
	}
}

func TestScope_Names(t *testing.T) {
	s := NewScope(nil)
	for _, name := range []string{"b", "c", "a"} {
		s.Insert(name, vals.Int(0), pos(1, 1))
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, s.Names()); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	if names := NewScope(nil).Names(); len(names) != 0 {
		t.Errorf("Names of empty scope -> %v", names)
	}
}
