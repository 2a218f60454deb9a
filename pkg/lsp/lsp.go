// Package lsp implements a language server for cmdl.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"src.cmdl.sh/pkg/logutil"
	"src.cmdl.sh/pkg/prog"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the LSP subprogram.
type Program struct {
	run bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "lsp", false, "Run language server instead of running a script")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))
	logger.Println("language server started")
	<-conn.DisconnectNotify()
	logger.Println("language server stopped")
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
