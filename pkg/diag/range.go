package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) of byte offsets within a source.
// Structs can embed Ranging to satisfy the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// MixedRanging returns a Ranging from the start position of a to the end
// position of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

// Position returns the 1-based line and column of the byte offset idx in
// src. Columns count runes, so a tab or a multi-byte character is one column.
func Position(src string, idx int) (line, col int) {
	if idx < 0 {
		return 0, 0
	} else if idx > len(src) {
		idx = len(src)
	}
	line, col = 1, 1
	for _, r := range src[:idx] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
