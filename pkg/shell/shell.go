// Package shell is the entry point for running cmdl programs.
package shell

import (
	"os"

	"src.cmdl.sh/pkg/config"
	"src.cmdl.sh/pkg/logutil"
	"src.cmdl.sh/pkg/parse"
	"src.cmdl.sh/pkg/prog"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It runs a script from a file, from the -c
// flag or from stdin.
type Program struct {
	codeInArg   bool
	compileOnly bool
	showAST     bool
	lenient     bool
	json        *bool
	cfg         *config.Config
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Take the first argument as code to execute")
	fs.BoolVar(&p.compileOnly, "compileonly", false,
		"Lex and parse the script, but do not run it")
	fs.BoolVar(&p.showAST, "ast", false,
		"Print the parsed tree before running")
	fs.BoolVar(&p.lenient, "lenient", false,
		"Defer arity checks of calls with too few arguments to run time")
	p.json = fs.JSON()
	p.cfg = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 1 {
		return prog.BadUsage("too many arguments")
	}
	if p.codeInArg && len(args) == 0 {
		return prog.BadUsage("-c requires an argument")
	}
	cfg := &scriptCfg{
		Cmd: p.codeInArg, CompileOnly: p.compileOnly, JSON: *p.json,
		ShowAST: p.showAST || p.cfg.ShowAST,
		Arity:   p.cfg.ArityPolicy(),
	}
	if p.lenient {
		cfg.Arity = parse.ArityLenient
	}
	return prog.Exit(script(fds, args, cfg))
}
