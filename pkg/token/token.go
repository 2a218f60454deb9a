// Package token defines the tokens produced by the cmdl lexer.
package token

import "fmt"

// Kind classifies a Token.
type Kind int

// Possible values of Kind.
const (
	Start Kind = iota
	Command
	Subcommand
	Identifier
	IntLiteral
	StringLiteral
	DoubleLiteral
	InvalidIdentifier
	EndOfInput
)

var kindNames = [...]string{
	Start:             "Start",
	Command:           "Command",
	Subcommand:        "Subcommand",
	Identifier:        "Identifier",
	IntLiteral:        "IntLiteral",
	StringLiteral:     "StringLiteral",
	DoubleLiteral:     "DoubleLiteral",
	InvalidIdentifier: "InvalidIdentifier",
	EndOfInput:        "EndOfInput",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsKeyword reports whether the kind is one that the lexer assigns by
// consulting the command registry.
func (k Kind) IsKeyword() bool { return k == Command || k == Subcommand }

// IsLiteral reports whether the kind is a literal value.
func (k Kind) IsLiteral() bool {
	return k == IntLiteral || k == StringLiteral || k == DoubleLiteral
}

// Token is a lexical token. Tokens are values; nothing modifies a Token after
// the lexer produced it.
type Token struct {
	Kind Kind
	// Text is the token text. For string literals, it excludes the
	// delimiters.
	Text string
	// Line and Column are 1-based and point at the first character of the
	// token.
	Line, Column int
	// MaxArgs is only meaningful for Command and Subcommand tokens.
	MaxArgs int
	// From and To are byte offsets of the token in the source; a string
	// literal's range includes its delimiters.
	From, To int
}

// Pos returns the position of the token.
func (t Token) Pos() Pos { return Pos{t.Line, t.Column} }

func (t Token) String() string {
	if t.Kind == EndOfInput {
		return "EndOfInput"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Pos is a source position.
type Pos struct {
	Line, Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}
