package symtab

import (
	"sort"

	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/token"
)

const (
	initialBuckets = 8
	// A scope grows when the number of symbols per bucket exceeds this.
	maxLoadFactor = 0.75
)

// Scope binds names to symbols. It is a hash table with separate chaining,
// and may have a parent scope that lookups through a Table fall back to.
//
// The zero value is not usable; create scopes with NewScope.
type Scope struct {
	parent  *Scope
	buckets []*entry
	count   int
}

type entry struct {
	sym  Symbol
	next *entry
}

// NewScope creates an empty scope with the given parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, buckets: make([]*entry, initialBuckets)}
}

func hash(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*37 + uint32(name[i])
	}
	return h
}

func (s *Scope) bucket(name string) int {
	return int(hash(name) % uint32(len(s.buckets)))
}

// Parent returns the parent scope, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Len returns the number of symbols defined in the scope.
func (s *Scope) Len() int { return s.count }

// Insert defines a new symbol. It returns a *DuplicateError if name is
// already defined in this scope; parent scopes are not consulted.
func (s *Scope) Insert(name string, v vals.Value, pos token.Pos) error {
	if prev := s.Lookup(name); prev != nil {
		return &DuplicateError{Name: name, Pos: pos, Prev: prev.Pos()}
	}
	i := s.bucket(name)
	s.buckets[i] = &entry{Symbol{name, v, pos.Line, pos.Column}, s.buckets[i]}
	s.count++
	if float64(s.count)/float64(len(s.buckets)) > maxLoadFactor {
		s.resize(2 * len(s.buckets))
	}
	return nil
}

func (s *Scope) resize(n int) {
	old := s.buckets
	s.buckets = make([]*entry, n)
	for _, e := range old {
		for e != nil {
			next := e.next
			i := s.bucket(e.sym.Name)
			e.next = s.buckets[i]
			s.buckets[i] = e
			e = next
		}
	}
}

// Lookup returns the symbol with the given name defined in this scope, or nil.
// The returned symbol may be modified to change its value.
func (s *Scope) Lookup(name string) *Symbol {
	for e := s.buckets[s.bucket(name)]; e != nil; e = e.next {
		if e.sym.Name == name {
			return &e.sym
		}
	}
	return nil
}

// Find is like Lookup, but returns an *UndefinedError carrying pos if the name
// is not defined in this scope.
func (s *Scope) Find(name string, pos token.Pos) (*Symbol, error) {
	if sym := s.Lookup(name); sym != nil {
		return sym, nil
	}
	return nil, &UndefinedError{Name: name, Pos: pos}
}

// Delete removes the symbol with the given name from this scope. It does
// nothing if there is no such symbol.
func (s *Scope) Delete(name string) {
	for p := &s.buckets[s.bucket(name)]; *p != nil; p = &(*p).next {
		if (*p).sym.Name == name {
			*p = (*p).next
			s.count--
			return
		}
	}
}

// Names returns the names defined in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, s.count)
	for _, e := range s.buckets {
		for ; e != nil; e = e.next {
			names = append(names, e.sym.Name)
		}
	}
	sort.Strings(names)
	return names
}
