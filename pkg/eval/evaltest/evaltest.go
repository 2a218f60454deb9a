// Package evaltest provides a framework for testing cmdl programs.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//		That("PRINT ADD 1 2").Prints("3\n"),
//		That("PRINT x").Throws(ErrorWithCode(eval.UndefinedIdentifier)))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"bytes"
	"strings"
	"testing"

	"src.cmdl.sh/pkg/eval"
	"src.cmdl.sh/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	setup  func(ev *eval.Evaler)
	verify func(t *testing.T, ev *eval.Evaler)
	arity  parse.Arity
	want   result
}

type result struct {
	Out []byte
	Err error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// executed separately, use the Then method to append code pieces.
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that executes the given code in addition, with the
// same Evaler. Multiple arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Evaler before the code is executed.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// Lenient returns a new Case that is parsed with the lenient arity policy.
func (c Case) Lenient() Case {
	c.arity = parse.ArityLenient
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any side effects, for example:
//
//	That("# comment").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function on the Evaler after the code is executed.
func (c Case) Passes(f func(t *testing.T, ev *eval.Evaler)) Case {
	c.verify = f
	return c
}

// Prints returns an altered Case that requires the source code to produce the
// specified output when evaluated.
func (c Case) Prints(s string) Case {
	c.want.Out = []byte(s)
	return c
}

// Throws returns an altered Case that requires the source code to fail with an
// error matching err. Matchers are constructed by functions like
// ErrorWithCode; other errors are compared with reflect.DeepEqual.
func (c Case) Throws(err error) Case {
	c.want.Err = err
	return c
}

// Test runs test cases. For each test case, a new Evaler is created with
// NewEvaler.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Evaler) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Evaler is created
// with NewEvaler and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Evaler), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		tc := tc
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			ev := eval.NewEvaler()
			setup(ev)
			if tc.setup != nil {
				tc.setup(ev)
			}

			r := evalAndCollect(ev, tc.codes, tc.arity)

			if tc.verify != nil {
				tc.verify(t, ev)
			}
			if !bytes.Equal(tc.want.Out, r.Out) {
				t.Errorf("got out %q, want %q", r.Out, tc.want.Out)
			}
			if !matchErr(tc.want.Err, r.Err) {
				t.Errorf("got error %T: %v", r.Err, r.Err)
				t.Errorf("want: %v", tc.want.Err)
			}
		})
	}
}

// Evaluates each piece of code in turn. Evaluation stops at the first error,
// like it does within a single piece.
func evalAndCollect(ev *eval.Evaler, texts []string, arity parse.Arity) result {
	var r result
	var out bytes.Buffer
	for _, text := range texts {
		err := ev.Eval(parse.Source{Name: "[test]", Code: text},
			eval.EvalCfg{Out: &out, Arity: arity})
		if err != nil {
			r.Err = err
			break
		}
	}
	if out.Len() > 0 {
		r.Out = out.Bytes()
	}
	return r
}
