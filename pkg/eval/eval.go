// Package eval runs cmdl programs.
//
// A program runs one statement at a time. Before a statement's command is
// dispatched, each subcommand among its arguments is evaluated, innermost
// first and left to right, and the subcommand's node in the tree is replaced
// with a literal holding its result.
package eval

import (
	"context"
	"io"

	"src.cmdl.sh/pkg/ast"
	"src.cmdl.sh/pkg/logutil"
	"src.cmdl.sh/pkg/parse"
	"src.cmdl.sh/pkg/symtab"
	"src.cmdl.sh/pkg/token"
)

var logger = logutil.GetLogger("[eval] ")

// Evaler holds the state shared by all programs run with it: the command
// registry and the symbol table.
type Evaler struct {
	registry *Registry
	symbols  *symtab.Table
}

// NewEvaler creates an Evaler with the builtin commands and an empty global
// scope.
func NewEvaler() *Evaler {
	r := NewRegistry()
	addBuiltins(r)
	return &Evaler{r, symtab.NewTable(nil)}
}

// Registry returns the command registry of the Evaler. Commands registered
// with it are recognized by programs parsed afterwards.
func (ev *Evaler) Registry() *Registry { return ev.registry }

// Symbols returns the symbol table of the Evaler.
func (ev *Evaler) Symbols() *symtab.Table { return ev.symbols }

// EvalCfg keeps configuration for the (*Evaler).Eval method.
type EvalCfg struct {
	// Output of PRINT. If nil, output is discarded.
	Out io.Writer
	// Policy for calls with too few arguments.
	Arity parse.Arity
}

// Parse lexes and parses the source using the Evaler's registry.
func (ev *Evaler) Parse(src parse.Source, arity parse.Arity) (*ast.Tree, error) {
	return parse.Parse(parse.NewLexer(src, ev.registry), parse.Config{Arity: arity})
}

// ParseContext is like Parse, but lexes on a separate goroutine that feeds
// the parser through a [parse.Stream]. It returns ctx.Err() if ctx is
// cancelled before parsing finishes.
func (ev *Evaler) ParseContext(ctx context.Context, src parse.Source, arity parse.Arity) (*ast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	// Stops the lexer goroutine when parsing ends before EndOfInput.
	defer cancel()
	return parse.Parse(parse.NewStream(ctx, parse.NewLexer(src, ev.registry)),
		parse.Config{Arity: arity})
}

// Eval parses and runs a program. Nothing runs if the program has a lexing or
// parsing error.
func (ev *Evaler) Eval(src parse.Source, cfg EvalCfg) error {
	tree, err := ev.Parse(src, cfg.Arity)
	if err != nil {
		return err
	}
	return ev.Interpret(tree, src, cfg.Out)
}

// Interpret runs the statements of a parsed tree in order, rewriting the tree
// as subcommands are evaluated. It stops at the first error, at the
// EndOfInput node, or at any node that is not a command. The source is used
// for error messages.
func (ev *Evaler) Interpret(tree *ast.Tree, src parse.Source, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	fm := &Frame{Evaler: ev, Out: out, src: src, tree: tree}
	for _, stmt := range tree.Children(tree.Root()) {
		tok := tree.Token(stmt)
		if tok.Kind != token.Command {
			if tok.Kind != token.EndOfInput {
				logger.Printf("stopping at %s at %s", tok, tok.Pos())
			}
			break
		}
		if err := fm.fold(stmt); err != nil {
			return err
		}
		if err := fm.dispatch(stmt); err != nil {
			return err
		}
	}
	return nil
}
