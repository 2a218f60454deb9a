package eval

import (
	"errors"
	"io"
	"strconv"

	"src.cmdl.sh/pkg/ast"
	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/eval/errs"
	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/parse"
	"src.cmdl.sh/pkg/symtab"
	"src.cmdl.sh/pkg/token"
)

// Frame is the context in which commands and subcommands run.
type Frame struct {
	Evaler *Evaler
	Out    io.Writer

	src  parse.Source
	tree *ast.Tree
}

// Errorf returns an *Error located at tok.
func (fm *Frame) Errorf(tok token.Token, code diag.Code, format string, args ...any) *Error {
	return errorAt(fm.src, tok, code, format, args...)
}

// Folds the subcommands among the arguments of the node, leaving only
// identifiers and literals as its children.
func (fm *Frame) fold(id ast.NodeID) error {
	for _, child := range fm.tree.Children(id) {
		if fm.tree.Token(child).Kind != token.Subcommand {
			continue
		}
		if err := fm.fold(child); err != nil {
			return err
		}
		v, err := fm.callSubcommand(child)
		if err != nil {
			return err
		}
		fm.tree.ReplaceWithLiteral(child, literalToken(v, fm.tree.Token(child)))
	}
	return nil
}

func (fm *Frame) callSubcommand(id ast.NodeID) (vals.Value, error) {
	tok := fm.tree.Token(id)
	sub := fm.Evaler.registry.Subcommand(tok.Text)
	if sub == nil {
		return nil, fm.Errorf(tok, UnsupportedOperator, "unknown subcommand %s", tok.Text)
	}
	args, err := fm.args(id, sub.Name, sub.MaxArgs)
	if err != nil {
		return nil, err
	}
	logger.Printf("folding %s at %s", tok.Text, tok.Pos())
	return sub.Fn(fm, args)
}

func (fm *Frame) dispatch(id ast.NodeID) error {
	tok := fm.tree.Token(id)
	cmd := fm.Evaler.registry.Command(tok.Text)
	if cmd == nil {
		return fm.Errorf(tok, UnsupportedOperator, "unknown command %s", tok.Text)
	}
	args, err := fm.args(id, cmd.Name, cmd.MaxArgs)
	if err != nil {
		return err
	}
	logger.Printf("running %s at %s", tok.Text, tok.Pos())
	return cmd.Fn(fm, args)
}

// Returns the tokens of the children of a call, checking their number.
func (fm *Frame) args(id ast.NodeID, name string, arity int) ([]token.Token, error) {
	children := fm.tree.Children(id)
	if len(children) != arity {
		return nil, fm.Errorf(fm.tree.Token(id), ArityMismatch, "%s",
			errs.ArityMismatch{What: "arguments of " + name,
				ValidLow: arity, ValidHigh: arity, Actual: len(children)})
	}
	args := make([]token.Token, len(children))
	for i, child := range children {
		args[i] = fm.tree.Token(child)
	}
	return args, nil
}

// Literal converts a literal token to a value.
func (fm *Frame) Literal(tok token.Token) (vals.Value, error) {
	switch tok.Kind {
	case token.IntLiteral:
		i, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, fm.Errorf(tok, IntegerOverflow,
				"integer %s does not fit in 64 bits", tok.Text)
		}
		return vals.Int(i), nil
	case token.DoubleLiteral:
		// Literals too large for float64 become infinities.
		f, _ := strconv.ParseFloat(tok.Text, 64)
		return vals.Double(f), nil
	case token.StringLiteral:
		return vals.String(tok.Text), nil
	}
	return nil, fm.Errorf(tok, WrongArgumentKind, "%s is not a literal", describe(tok))
}

// Value converts a literal token to a value, or resolves an identifier token
// to the value it is bound to.
func (fm *Frame) Value(tok token.Token) (vals.Value, error) {
	if tok.Kind == token.Identifier {
		sym, err := fm.Evaler.symbols.Find(tok.Text, tok.Pos())
		if err != nil {
			return nil, fm.symbolError(tok, err)
		}
		return sym.Value, nil
	}
	return fm.Literal(tok)
}

// Converts errors from the symbol table to an *Error located at tok.
func (fm *Frame) symbolError(tok token.Token, err error) error {
	var (
		dup      *symtab.DuplicateError
		undef    *symtab.UndefinedError
		mismatch *symtab.KindMismatchError
	)
	switch {
	case errors.As(err, &dup):
		return fm.Errorf(tok, DuplicateIdentifier, "%s", err)
	case errors.As(err, &undef):
		return fm.Errorf(tok, UndefinedIdentifier, "%s", err)
	case errors.As(err, &mismatch):
		return fm.Errorf(tok, TypeMismatch, "%s", err)
	}
	return err
}

// Returns a literal token holding v, located at the given token.
func literalToken(v vals.Value, at token.Token) token.Token {
	tok := token.Token{Text: vals.ToString(v),
		Line: at.Line, Column: at.Column, From: at.From, To: at.To}
	switch v.(type) {
	case vals.Int:
		tok.Kind = token.IntLiteral
	case vals.Double:
		tok.Kind = token.DoubleLiteral
	case vals.String:
		tok.Kind = token.StringLiteral
	}
	return tok
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Identifier:
		return "identifier " + tok.Text
	case token.IntLiteral, token.DoubleLiteral:
		return "number " + tok.Text
	case token.StringLiteral:
		return "string |" + tok.Text + "|"
	}
	return tok.Kind.String() + " " + tok.Text
}
