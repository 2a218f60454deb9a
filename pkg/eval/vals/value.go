// Package vals contains the runtime values of cmdl.
//
// The set of values is closed: Int, Double and String are the only
// implementations of Value.
package vals

// Value is a runtime value.
type Value interface {
	Kind() Kind
	value()
}

// Kind is the kind of a Value.
type Kind int

// Possible values of Kind.
const (
	IntKind Kind = iota
	DoubleKind
	StringKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case DoubleKind:
		return "double"
	case StringKind:
		return "string"
	}
	return "!!unknown"
}

// Int is a signed 64-bit integer.
type Int int64

// Double is a 64-bit floating-point number.
type Double float64

// String is a string.
type String string

func (Int) Kind() Kind    { return IntKind }
func (Double) Kind() Kind { return DoubleKind }
func (String) Kind() Kind { return StringKind }

func (Int) value()    {}
func (Double) value() {}
func (String) value() {}

// IsNum reports whether v is an Int or a Double.
func IsNum(v Value) bool {
	switch v.(type) {
	case Int, Double:
		return true
	}
	return false
}

// ToDouble converts a number to float64. It panics if v is a String.
func ToDouble(v Value) float64 {
	switch v := v.(type) {
	case Int:
		return float64(v)
	case Double:
		return float64(v)
	}
	panic("vals.ToDouble called on " + v.Kind().String())
}
