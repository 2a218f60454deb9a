// Package parse implements the lexer and parser of cmdl.
//
// Statements have no terminator. The structure of a program is determined
// entirely by the arity of the commands and subcommands, which the lexer
// learns from a [Keywords] implementation:
//
//	CREATE x ADD 1 MUL 2 3
//
// parses as CREATE(x, ADD(1, MUL(2, 3))) when CREATE, ADD and MUL all take 2
// arguments.
package parse

import (
	"fmt"

	"src.cmdl.sh/pkg/ast"
	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/token"
)

// Arity selects how the parser treats a call that runs out of arguments.
type Arity int

// Possible values of Arity.
const (
	// ArityStrict makes a call with fewer arguments than its maximum a parse
	// error.
	ArityStrict Arity = iota
	// ArityLenient keeps short calls in the tree, leaving the check to the
	// command handler.
	ArityLenient
)

func (a Arity) String() string {
	switch a {
	case ArityStrict:
		return "strict"
	case ArityLenient:
		return "lenient"
	}
	return fmt.Sprintf("Arity(%d)", int(a))
}

// ParseArity parses "strict" or "lenient". The empty string is treated as
// "strict".
func ParseArity(s string) (Arity, error) {
	switch s {
	case "", "strict":
		return ArityStrict, nil
	case "lenient":
		return ArityLenient, nil
	}
	return ArityStrict, fmt.Errorf("invalid arity policy %q, should be strict or lenient", s)
}

// Config keeps configuration options when parsing.
type Config struct {
	Arity Arity
}

// RootText is the text of the synthetic token at the root of a parsed tree.
const RootText = "PROG"

type sourcer interface {
	Source() Source
}

type parser struct {
	ts   TokenSource
	cfg  Config
	src  Source
	tree *ast.Tree
}

// Parse consumes all tokens of ts and builds a tree. The root holds a Start
// token; its children are the top-level statements followed by a single
// EndOfInput node.
//
// Errors from ts are returned unchanged. Structural problems are reported as
// *Error.
func Parse(ts TokenSource, cfg Config) (*ast.Tree, error) {
	p := &parser{ts: ts, cfg: cfg,
		tree: ast.New(token.Token{Kind: token.Start, Text: RootText})}
	if s, ok := ts.(sourcer); ok {
		p.src = s.Source()
	}
	root := p.tree.Root()
	for {
		tok, err := ts.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case token.EndOfInput:
			p.tree.AppendChild(root, p.tree.Create(tok))
			return p.tree, nil
		case token.Command:
			stmt, err := p.call(tok)
			if err != nil {
				return nil, err
			}
			p.tree.AppendChild(root, stmt)
		default:
			return nil, p.errorf(tok, StrayToken,
				"unexpected %s %q, expecting a command", tok.Kind, tok.Text)
		}
	}
}

// Parses the arguments of a command or subcommand, whose keyword token has
// already been consumed.
func (p *parser) call(kw token.Token) (ast.NodeID, error) {
	id := p.tree.Create(kw)
	n := 0
args:
	for n < kw.MaxArgs {
		tok, err := p.ts.NextToken()
		if err != nil {
			return ast.NoNode, err
		}
		switch tok.Kind {
		case token.EndOfInput, token.Command:
			// Leave it for the top level.
			p.ts.Retreat()
			break args
		case token.Subcommand:
			sub, err := p.call(tok)
			if err != nil {
				return ast.NoNode, err
			}
			p.tree.AppendChild(id, sub)
		default:
			p.tree.AppendChild(id, p.tree.Create(tok))
		}
		n++
	}
	if n < kw.MaxArgs && p.cfg.Arity == ArityStrict {
		return ast.NoNode, p.errorf(kw, ArityMismatch,
			"arity mismatch: %s needs %s, but got %s",
			kw.Text, nArguments(kw.MaxArgs), nArguments(n))
	}
	return id, nil
}

func (p *parser) errorf(tok token.Token, code diag.Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Context: diag.Context{
			Name: p.src.Name, Source: p.src.Code,
			Ranging: diag.Ranging{From: tok.From, To: tok.To},
			Line:    tok.Line, Column: tok.Column,
		},
	}
}

func nArguments(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}
