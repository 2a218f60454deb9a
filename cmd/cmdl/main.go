// Cmdl runs scripts written in a small line-oriented command language, in
// which each line is a command such as CREATE, SET or PRINT, and arguments may
// be nested subcommands such as ADD or MUL. It can also serve the language
// over the Language Server Protocol.
package main

import (
	"os"

	"src.cmdl.sh/pkg/buildinfo"
	"src.cmdl.sh/pkg/lsp"
	"src.cmdl.sh/pkg/prog"
	"src.cmdl.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &lsp.Program{}, &shell.Program{})))
}
