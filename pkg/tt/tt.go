// Package tt supports table-driven tests with little boilerplate.
//
// A test is written as a function to test, followed by any number of cases:
//
//	tt.Test(t, tt.Fn(strconv.Itoa),
//		tt.Args(1).Rets("1"),
//		tt.Args(-1).Rets("-1"))
package tt

import (
	"fmt"
	"reflect"
	"strings"
)

// Case represents a test case. It is created by Args, and offers setters that
// augment and return itself, so that calls can be chained like
// Args(...).Rets(...).
type Case struct {
	args         []any
	retsMatchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets modifies the test case so that it requires the return values to match
// the given values. It returns the receiver. The arguments may implement the
// Matcher interface, in which case its Match method is called with the actual
// return value. Otherwise, reflect.DeepEqual is used to determine matches.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnDescriptor describes a function to test.
type FnDescriptor struct {
	name string
	body any
}

// Fn returns a FnDescriptor for the given function. The function is called
// "f" in error messages unless Named is called.
func Fn(body any) *FnDescriptor {
	return &FnDescriptor{name: "f", body: body}
}

// Named sets the name of the function used in error messages, and returns the
// receiver.
func (fn *FnDescriptor) Named(name string) *FnDescriptor {
	fn.name = name
	return fn
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test tests a function against test cases.
func Test(t T, fn *FnDescriptor, tests ...*Case) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if !match(retsMatcher, rets) {
				t.Errorf("%s(%s) -> %s, want %s", fn.name,
					sprintCommaDelimited(test.args...),
					sprintRets(rets...), sprintRets(retsMatcher...))
			}
		}
	}
}

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

func (anyMatcher) String() string { return "<any>" }

func match(matchers, actual []any) bool {
	if len(matchers) != len(actual) {
		return false
	}
	for i, matcher := range matchers {
		if !matchOne(matcher, actual[i]) {
			return false
		}
	}
	return true
}

func matchOne(m, a any) bool {
	if m, ok := m.(Matcher); ok {
		return m.Match(a)
	}
	return reflect.DeepEqual(m, a)
}

func sprintRets(rets ...any) string {
	if len(rets) == 1 {
		return fmt.Sprint(rets[0])
	}
	return "(" + sprintCommaDelimited(rets...) + ")"
}

func sprintCommaDelimited(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, arg)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	argsReflect := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) returns a zero Value, which cannot be
			// passed to Call; use the zero value of the parameter type.
			fnType := reflect.TypeOf(fn)
			var argType reflect.Type
			if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
				argType = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				argType = fnType.In(i)
			}
			argsReflect[i] = reflect.Zero(argType)
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}
