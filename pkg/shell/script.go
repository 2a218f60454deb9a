package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/eval"
	"src.cmdl.sh/pkg/parse"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool
	ShowAST     bool
	Arity       parse.Arity
}

// Runs a script, returning the exit status: 1 if the script has an error, 2
// if it cannot be read.
func script(fds [3]*os.File, args []string, cfg *scriptCfg) int {
	src, err := readSource(fds[0], args, cfg.Cmd)
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}
	logger.Printf("running %s", src.Name)

	ev := eval.NewEvaler()
	tree, err := ev.ParseContext(context.Background(), src, cfg.Arity)
	if err == nil && cfg.ShowAST {
		parse.PPrint(fds[1], tree)
	}
	if cfg.CompileOnly {
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
		} else if err != nil {
			diag.ShowError(fds[2], err)
		}
		if err != nil {
			return 1
		}
		return 0
	}
	if err == nil {
		err = ev.Interpret(tree, src, fds[1])
	}
	if err != nil {
		diag.ShowError(fds[2], err)
		return 1
	}
	return 0
}

func readSource(stdin io.Reader, args []string, cmd bool) (parse.Source, error) {
	switch {
	case cmd:
		return parse.Source{Name: "code from -c", Code: args[0]}, nil
	case len(args) == 0:
		bytes, err := io.ReadAll(stdin)
		if err != nil {
			return parse.Source{}, fmt.Errorf("cannot read stdin: %w", err)
		}
		if !utf8.Valid(bytes) {
			return parse.Source{}, fmt.Errorf("cannot read stdin: %w", errSourceNotUTF8)
		}
		return parse.Source{Name: "[stdin]", Code: string(bytes)}, nil
	}
	name, err := filepath.Abs(args[0])
	if err != nil {
		return parse.Source{}, fmt.Errorf("cannot get full path of script %q: %w", args[0], err)
	}
	code, err := readFileUTF8(name)
	if err != nil {
		return parse.Source{}, fmt.Errorf("cannot read script %q: %w", name, err)
	}
	return parse.Source{Name: name, Code: code}, nil
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

// Converts lexing and parsing errors into JSON.
func errorsToJSON(err error) []byte {
	converted := []errorInJSON{}
	if d, ok := diag.AsDiagnostic(err); ok {
		e := d.Entry()
		converted = append(converted, errorInJSON{e.Name, e.Line, e.Column, e.Message})
	} else if err != nil {
		converted = append(converted, errorInJSON{Message: err.Error()})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
