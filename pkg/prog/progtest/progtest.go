// Package progtest contains utilities for testing [prog.Program] instances.
//
// Test cases are constructed with ThatCmdl and checked with Test:
//
//	Test(t, &shell.Program{},
//		ThatCmdl("-c", "PRINT 1").WritesStdout("1\n"),
//		ThatCmdl("-bad-flag").ExitsWith(2))
package progtest

import (
	"os"
	"strings"
	"testing"

	"src.cmdl.sh/pkg/must"
	"src.cmdl.sh/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitStatus int
	stdout     output
	stderr     output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + quote(o.content)
	}
	return quote(o.content)
}

func quote(s string) string { return "«" + s + "»" }

// ThatCmdl returns a new Case with the specified command-line arguments,
// excluding the program name.
//
// The new Case expects the program to exit with 0 and write nothing to
// stdout or stderr.
func ThatCmdl(args ...string) Case {
	return Case{args: append([]string{"cmdl"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin of
// the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations, for example:
//
//	ThatCmdl("-c", "").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to exit with
// the given status.
func (c Case) ExitsWith(code int) Case {
	c.want.exitStatus = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{s, false}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{s, true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{s, false}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{s, true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitStatus != c.want.exitStatus {
				t.Errorf("got exit status %v, want %v", r.exitStatus, c.want.exitStatus)
			}
			if !matchOutput(r.stdout.content, c.want.stdout) {
				t.Errorf("got stdout %v, want %v", r.stdout, c.want.stdout)
			}
			if !matchOutput(r.stderr.content, c.want.stderr) {
				t.Errorf("got stderr %v, want %v", r.stderr, c.want.stderr)
			}
		})
	}
}

// Run runs a Program with the given arguments. It returns the exit status and
// what the program wrote to stdout and stderr.
func Run(p prog.Program, args ...string) (exit int, stdout, stderr string) {
	r := run(p, append([]string{"cmdl"}, args...), "")
	return r.exitStatus, r.stdout.content, r.stderr.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()
	defer r0.Close()

	w1, get1 := capturedOutput()
	w2, get2 := capturedOutput()

	exitStatus := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	return result{exitStatus, output{get1(), false}, output{get2(), false}}
}

func matchOutput(got string, want output) bool {
	if want.partial {
		return strings.Contains(got, want.content)
	}
	return got == want.content
}

func capturedOutput() (*os.File, func() string) {
	r, w := must.Pipe()
	output := make(chan string, 1)
	go func() {
		output <- string(must.ReadAllAndClose(r))
	}()
	return w, func() string {
		// Close the write side so captureOutput goroutine sees EOF and
		// terminates allowing us to capture and cache the output.
		w.Close()
		return <-output
	}
}
