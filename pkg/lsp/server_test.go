package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.cmdl.sh/pkg/testutil"
	"src.cmdl.sh/pkg/tt"
)

var (
	uri    = lsp.DocumentURI("file:///a.cmdl")
	docID  = lsp.TextDocumentIdentifier{URI: uri}
	noDiag = []lsp.Diagnostic{}
)

type client struct {
	conn  *jsonrpc2.Conn
	diags chan lsp.PublishDiagnosticsParams
}

func setup(t *testing.T) *client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverEnd, clientEnd := net.Pipe()
	serverConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverEnd, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))

	c := &client{diags: make(chan lsp.PublishDiagnosticsParams, 10)}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientEnd, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				if err := json.Unmarshal(*req.Params, &params); err == nil {
					c.diags <- params
				}
			}
			return nil, nil
		}))
	t.Cleanup(func() {
		c.conn.Close()
		serverConn.Close()
		cancel()
	})
	return c
}

func (c *client) call(t *testing.T, method string, params, result any) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testutil.Scaled(2*time.Second))
	defer cancel()
	return c.conn.Call(ctx, method, params, result)
}

func (c *client) open(t *testing.T, text string) {
	t.Helper()
	err := c.conn.Notify(context.Background(), "textDocument/didOpen",
		lsp.DidOpenTextDocumentParams{
			TextDocument: lsp.TextDocumentItem{URI: uri, LanguageID: "cmdl", Text: text}})
	if err != nil {
		t.Fatalf("didOpen: %v", err)
	}
}

func (c *client) nextDiags(t *testing.T) []lsp.Diagnostic {
	t.Helper()
	select {
	case params := <-c.diags:
		if params.URI != uri {
			t.Errorf("got diagnostics for %v, want %v", params.URI, uri)
		}
		return params.Diagnostics
	case <-time.After(testutil.Scaled(2 * time.Second)):
		t.Fatalf("timed out waiting for diagnostics")
		return nil
	}
}

func TestInitialize(t *testing.T) {
	c := setup(t)
	var result lsp.InitializeResult
	if err := c.call(t, "initialize", lsp.InitializeParams{}, &result); err != nil {
		t.Fatal(err)
	}
	if !result.Capabilities.HoverProvider {
		t.Errorf("hover not advertised")
	}
	if result.Capabilities.CompletionProvider == nil {
		t.Errorf("completion not advertised")
	}
	sync := result.Capabilities.TextDocumentSync
	if sync == nil || sync.Options == nil || sync.Options.Change != lsp.TDSKFull {
		t.Errorf("got text document sync %v, want full sync", sync)
	}
}

func TestDiagnostics(t *testing.T) {
	c := setup(t)

	c.open(t, "CREATE x 1\nPRINT x\n")
	if diags := c.nextDiags(t); !cmp.Equal(diags, noDiag) {
		t.Errorf("got diagnostics %v, want none", diags)
	}

	err := c.conn.Notify(context.Background(), "textDocument/didChange",
		lsp.DidChangeTextDocumentParams{
			TextDocument:   lsp.VersionedTextDocumentIdentifier{TextDocumentIdentifier: docID},
			ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "CREATE x 1\nPRINT |abc"}}})
	if err != nil {
		t.Fatal(err)
	}
	want := []lsp.Diagnostic{{
		Range: lsp.Range{
			Start: lsp.Position{Line: 1, Character: 6},
			End:   lsp.Position{Line: 1, Character: 10}},
		Severity: lsp.Error,
		Source:   "lex",
		Message:  "unexpected end of input in string literal",
	}}
	if diags := c.nextDiags(t); !cmp.Equal(diags, want) {
		t.Errorf("-got +want:\n%s", cmp.Diff(diags, want))
	}
}

func TestDiagnostics_ParseError(t *testing.T) {
	c := setup(t)
	c.open(t, "PRINT")
	diags := c.nextDiags(t)
	if len(diags) != 1 || diags[0].Source != "parse" ||
		diags[0].Message != "arity mismatch: PRINT needs 1 argument, but got 0 arguments" {
		t.Errorf("got diagnostics %v", diags)
	}
}

func TestHover(t *testing.T) {
	c := setup(t)
	c.open(t, "CREATE count 1\nPRINT ADD count 2\n")
	c.nextDiags(t)

	hover := func(line, char int) string {
		var result lsp.Hover
		err := c.call(t, "textDocument/hover", lsp.TextDocumentPositionParams{
			TextDocument: docID, Position: lsp.Position{Line: line, Character: char}}, &result)
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Contents) == 0 {
			return ""
		}
		return result.Contents[0].Value
	}

	tt.Test(t, tt.Fn(hover).Named("hover"),
		tt.Args(0, 0).Rets("command CREATE, takes 2 arguments"),
		tt.Args(1, 7).Rets("subcommand ADD, takes 2 arguments"),
		tt.Args(1, 12).Rets("identifier count, created at line 1, column 8"),
		tt.Args(0, 13).Rets(""),
		tt.Args(5, 0).Rets(""),
	)
}

func TestHover_CRLF(t *testing.T) {
	c := setup(t)
	c.open(t, "CREATE x 1\r\nPRINT x\r\n")
	c.nextDiags(t)

	var result lsp.Hover
	err := c.call(t, "textDocument/hover", lsp.TextDocumentPositionParams{
		TextDocument: docID, Position: lsp.Position{Line: 1, Character: 0}}, &result)
	if err != nil {
		t.Fatal(err)
	}
	want := "command PRINT, takes 1 argument"
	if len(result.Contents) == 0 || result.Contents[0].Value != want {
		t.Errorf("got hover %v, want %q", result.Contents, want)
	}
	wantRange := lsp.Range{
		Start: lsp.Position{Line: 1, Character: 0},
		End:   lsp.Position{Line: 1, Character: 5}}
	if result.Range == nil || *result.Range != wantRange {
		t.Errorf("got range %v, want %v", result.Range, wantRange)
	}
}

func TestCompletion(t *testing.T) {
	c := setup(t)
	c.open(t, "CREATE total 1\nCREATE tax 2\nPRINT t")
	c.nextDiags(t)

	var items []lsp.CompletionItem
	err := c.call(t, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: docID, Position: lsp.Position{Line: 2, Character: 7}}}, &items)
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
		wantRange := lsp.Range{
			Start: lsp.Position{Line: 2, Character: 6},
			End:   lsp.Position{Line: 2, Character: 7}}
		if item.TextEdit == nil || item.TextEdit.Range != wantRange {
			t.Errorf("item %s has text edit %v, want range %v", item.Label, item.TextEdit, wantRange)
		}
	}
	if want := []string{"tax", "total"}; !cmp.Equal(labels, want) {
		t.Errorf("got labels %v, want %v", labels, want)
	}

	items = nil
	err = c.call(t, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: docID, Position: lsp.Position{Line: 2, Character: 0}}}, &items)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 10 {
		t.Errorf("got %d items with empty prefix, want 10", len(items))
	}
}

func TestErrors(t *testing.T) {
	c := setup(t)
	var result any
	err := c.call(t, "textDocument/definition", nil, &result)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
	err = c.call(t, "textDocument/hover", "not an object", &result)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeInvalidParams {
		t.Errorf("got error %v, want invalid params", err)
	}
	err = c.call(t, "textDocument/didChange", lsp.DidChangeTextDocumentParams{}, &result)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeInvalidParams {
		t.Errorf("got error %v, want invalid params", err)
	}
	if err := c.call(t, "shutdown", nil, &result); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

var positionTests = []struct {
	s   string
	idx int
	pos lsp.Position
}{
	{"ab", 1, lsp.Position{Line: 0, Character: 1}},
	{"a\nb", 2, lsp.Position{Line: 1, Character: 0}},
	{"a\r\nb", 3, lsp.Position{Line: 1, Character: 0}},
	{"a\r\nb\r\ncd", 7, lsp.Position{Line: 2, Character: 1}},
	{"a\r\rb", 3, lsp.Position{Line: 2, Character: 0}},
	{"\U0001F600b", 4, lsp.Position{Line: 0, Character: 2}},
}

func TestPositions(t *testing.T) {
	for _, test := range positionTests {
		if got := lspPositionFromIdx(test.s, test.idx); got != test.pos {
			t.Errorf("lspPositionFromIdx(%q, %d) = %v, want %v", test.s, test.idx, got, test.pos)
		}
		if got := lspPositionToIdx(test.s, test.pos); got != test.idx {
			t.Errorf("lspPositionToIdx(%q, %v) = %d, want %d", test.s, test.pos, got, test.idx)
		}
	}
}
