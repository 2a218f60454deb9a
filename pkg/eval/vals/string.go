package vals

import (
	"math"
	"strconv"
	"strings"
)

// ToString converts a Value to the form PRINT writes: integers in base 10,
// doubles in their shortest form and strings unchanged.
func ToString(v Value) string {
	switch v := v.(type) {
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Double:
		return formatFloat64(float64(v))
	case String:
		return string(v)
	}
	panic("unreachable")
}

// Repr returns a representation of a Value that can be written back as a
// literal. Strings are enclosed in pipes.
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return "|" + string(s) + "|"
	}
	return ToString(v)
}

func formatFloat64(f float64) string {
	// Shortest representation, but switch to scientific notation for very
	// large integral values and small fractions.
	s := strconv.FormatFloat(f, 'f', -1, 64)
	noPoint := !strings.ContainsRune(s, '.')
	if (noPoint && len(s) > 14 && s[len(s)-1] == '0') ||
		strings.HasPrefix(strings.TrimPrefix(s, "-"), "0.0000") {
		return strconv.FormatFloat(f, 'e', -1, 64)
	} else if noPoint && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return s + ".0"
	}
	return s
}
