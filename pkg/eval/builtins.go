package eval

import (
	"errors"
	"fmt"

	"src.cmdl.sh/pkg/eval/errs"
	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/must"
	"src.cmdl.sh/pkg/token"
)

func addBuiltins(r *Registry) {
	must.OK(r.AddCommand("CREATE", 2, createCmd))
	must.OK(r.AddCommand("PRINT", 1, printCmd))
	must.OK(r.AddCommand("SET", 2, setCmd))
	must.OK(r.AddCommand("DELETE", 1, deleteCmd))

	for _, op := range []struct {
		name string
		op   byte
	}{{"ADD", '+'}, {"SUB", '-'}, {"MUL", '*'}, {"DIV", '/'}} {
		must.OK(r.AddSubcommand(op.name, 2, ArithSubcommand(op.name, op.op)))
	}
}

// CREATE id literal
func createCmd(fm *Frame, args []token.Token) error {
	id, init := args[0], args[1]
	if err := wantIdentifier(fm, "first argument of CREATE", id); err != nil {
		return err
	}
	if !init.Kind.IsLiteral() {
		return badArg(fm, "second argument of CREATE", "a literal", init)
	}
	v, err := fm.Literal(init)
	if err != nil {
		return err
	}
	if err := fm.Evaler.symbols.Insert(id.Text, v, id.Pos()); err != nil {
		return fm.symbolError(id, err)
	}
	return nil
}

// PRINT literal|id
func printCmd(fm *Frame, args []token.Token) error {
	v, err := operand(fm, "argument of PRINT", args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(fm.Out, vals.ToString(v))
	return err
}

// SET id literal|id
func setCmd(fm *Frame, args []token.Token) error {
	id, src := args[0], args[1]
	if err := wantIdentifier(fm, "first argument of SET", id); err != nil {
		return err
	}
	v, err := operand(fm, "second argument of SET", src)
	if err != nil {
		return err
	}
	if err := fm.Evaler.symbols.Change(id.Text, v, id.Pos()); err != nil {
		return fm.symbolError(id, err)
	}
	return nil
}

// DELETE id
func deleteCmd(fm *Frame, args []token.Token) error {
	if err := wantIdentifier(fm, "argument of DELETE", args[0]); err != nil {
		return err
	}
	fm.Evaler.symbols.Delete(args[0].Text)
	return nil
}

// ArithSubcommand returns a SubcommandFunc that applies a binary operator
// accepted by Arith to its two operands. Each operand may be an identifier or
// a literal, and must be a number. It must be registered with 2 arguments.
func ArithSubcommand(name string, op byte) SubcommandFunc {
	return func(fm *Frame, args []token.Token) (vals.Value, error) {
		var operands [2]vals.Value
		for i, arg := range args {
			v, err := operand(fm, "operand of "+name, arg)
			if err != nil {
				return nil, err
			}
			if !vals.IsNum(v) {
				return nil, fm.Errorf(arg, WrongArgumentKind, "%s",
					errs.BadValue{What: "operand of " + name,
						Valid: "a number", Actual: describe(arg)})
			}
			operands[i] = v
		}
		v, err := Arith(op, operands[0], operands[1])
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, ErrIntegerOverflow):
			return nil, fm.Errorf(args[0], IntegerOverflow,
				"%s of %s and %s overflows", name,
				vals.ToString(operands[0]), vals.ToString(operands[1]))
		case errors.Is(err, ErrDivisionByZero):
			return nil, fm.Errorf(args[1], DivisionByZero, "division by zero")
		default:
			return nil, fm.Errorf(args[0], UnsupportedOperator,
				"%s: unsupported operator %q", name, op)
		}
	}
}

// Resolves an argument that may be an identifier or a literal.
func operand(fm *Frame, what string, tok token.Token) (vals.Value, error) {
	if tok.Kind != token.Identifier && !tok.Kind.IsLiteral() {
		return nil, badArg(fm, what, "an identifier or a literal", tok)
	}
	return fm.Value(tok)
}

func wantIdentifier(fm *Frame, what string, tok token.Token) error {
	if tok.Kind != token.Identifier {
		return badArg(fm, what, "an identifier", tok)
	}
	return nil
}

func badArg(fm *Frame, what, valid string, tok token.Token) error {
	return fm.Errorf(tok, WrongArgumentKind, "%s",
		errs.BadValue{What: what, Valid: valid, Actual: describe(tok)})
}
