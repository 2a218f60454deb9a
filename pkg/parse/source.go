package parse

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}
