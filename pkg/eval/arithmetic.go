package eval

import (
	"errors"
	"math"

	"src.cmdl.sh/pkg/eval/vals"
)

// Errors returned by Arith.
var (
	ErrIntegerOverflow     = errors.New("integer overflow")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// Arith applies one of the operators +, -, * and / to two numbers. If either
// operand is a Double, the operation is done in floating point and the result
// is a Double; otherwise it is done in 64-bit integers and the result is an
// Int. Integer division truncates toward zero.
//
// It panics if a or b is a String.
func Arith(op byte, a, b vals.Value) (vals.Value, error) {
	if !vals.IsNum(a) || !vals.IsNum(b) {
		panic("eval.Arith called with a non-number")
	}
	ai, aInt := a.(vals.Int)
	bi, bInt := b.(vals.Int)
	if aInt && bInt {
		i, err := intArith(op, int64(ai), int64(bi))
		if err != nil {
			return nil, err
		}
		return vals.Int(i), nil
	}
	f, err := floatArith(op, vals.ToDouble(a), vals.ToDouble(b))
	if err != nil {
		return nil, err
	}
	return vals.Double(f), nil
}

func intArith(op byte, a, b int64) (int64, error) {
	switch op {
	case '+':
		if b > 0 && a > math.MaxInt64-b || b < 0 && a < math.MinInt64-b {
			return 0, ErrIntegerOverflow
		}
		return a + b, nil
	case '-':
		if b < 0 && a > math.MaxInt64+b || b > 0 && a < math.MinInt64+b {
			return 0, ErrIntegerOverflow
		}
		return a - b, nil
	case '*':
		if a == 0 || b == 0 {
			return 0, nil
		}
		c := a * b
		if c/b != a || a == -1 && b == math.MinInt64 || b == -1 && a == math.MinInt64 {
			return 0, ErrIntegerOverflow
		}
		return c, nil
	case '/':
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		if a == math.MinInt64 && b == -1 {
			return 0, ErrIntegerOverflow
		}
		return a / b, nil
	}
	return 0, ErrUnsupportedOperator
}

func floatArith(op byte, a, b float64) (float64, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}
	return 0, ErrUnsupportedOperator
}
