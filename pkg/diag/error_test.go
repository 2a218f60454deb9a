package diag

import (
	"errors"
	"fmt"
	"testing"
)

type testErrorTag struct{}

func (testErrorTag) ErrorTag() string { return "Test Error" }

func TestError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	err := NewError[testErrorTag]("Bad", "[test]", "PRINT\nPRINT (x)",
		Ranging{12, 15}, "bad argument")

	wantErrorString := "Test Error at line 2, column 7: bad argument"
	if got := err.Error(); got != wantErrorString {
		t.Errorf("Error() -> %q, want %q", got, wantErrorString)
	}

	wantRanging := Ranging{From: 12, To: 15}
	if got := err.Range(); got != wantRanging {
		t.Errorf("Range() -> %v, want %v", got, wantRanging)
	}

	wantShow := "Test Error: {bad argument}\n  [test]:2:7: PRINT <(x)>"
	if got := err.Show(""); got != wantShow {
		t.Errorf("Show() -> %q, want %q", got, wantShow)
	}

	wantEntry := Entry{
		Category: "Test Error", Code: "Bad", Name: "[test]",
		Line: 2, Column: 7, Ranging: Ranging{12, 15}, Message: "bad argument",
	}
	if got := err.Entry(); got != wantEntry {
		t.Errorf("Entry() -> %v, want %v", got, wantEntry)
	}
}

func TestAsDiagnostic(t *testing.T) {
	err := NewError[testErrorTag]("Bad", "[test]", "x", Ranging{0, 1}, "bad")
	wrapped := fmt.Errorf("wrapped: %w", err)

	d, ok := AsDiagnostic(wrapped)
	if !ok || d != error(err) {
		t.Errorf("AsDiagnostic(wrapped) -> (%v, %v), want (%v, true)", d, ok, err)
	}
	if _, ok := AsDiagnostic(errors.New("plain")); ok {
		t.Errorf("AsDiagnostic(plain error) -> ok, want !ok")
	}
}
