package diag

import (
	"fmt"
	"io"
	"os"

	"src.cmdl.sh/pkg/sys"
)

// ColorMode controls whether ShowError uses the styled output of [Shower].
type ColorMode int

// Possible values of ColorMode.
const (
	// ColorAuto styles output only when writing to a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses "auto", "always" or "never". The empty string is
// treated as "auto".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q, should be auto, always or never", s)
}

// Color is the ColorMode used by ShowError.
var Color = ColorAuto

// ShowError shows an error. If styling is enabled for w and the error is a
// [Diagnostic], its Show method is used; otherwise the plain Error string is
// written.
func ShowError(w io.Writer, err error) {
	if d, ok := AsDiagnostic(err); ok && useColor(w) {
		fmt.Fprintln(w, d.Show(""))
	} else {
		fmt.Fprintln(w, err.Error())
	}
}

func useColor(w io.Writer) bool {
	switch Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && sys.IsATTY(f.Fd())
}

// Complain prints a message to w in bold and red if styling is enabled,
// adding a trailing newline.
func Complain(w io.Writer, msg string) {
	if useColor(w) {
		fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
	} else {
		fmt.Fprintln(w, msg)
	}
}

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}
