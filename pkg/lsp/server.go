package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/eval"
	"src.cmdl.sh/pkg/parse"
	"src.cmdl.sh/pkg/token"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	evaler  *eval.Evaler
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{eval.NewEvaler(), make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,
		"shutdown":                noop,
		"exit":                    exit,

		// Required by spec.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func exit(_ context.Context, conn jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, conn.Close()
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Printf("unknown method %s", req.Method)
			return nil, errMethodNotFound
		}
		params := json.RawMessage("null")
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	idx := lspPositionToIdx(content, params.Position)
	doc := s.scan(content)
	for _, tok := range doc.tokens {
		if tok.From <= idx && idx < tok.To {
			text := s.describe(tok, doc)
			if text == "" {
				break
			}
			r := lspRangeFromRange(content, diag.Ranging{From: tok.From, To: tok.To})
			return lsp.Hover{
				Contents: []lsp.MarkedString{lsp.RawMarkedString(text)},
				Range:    &r,
			}, nil
		}
	}
	return lsp.Hover{}, nil
}

func (s *server) describe(tok token.Token, doc document) string {
	reg := s.evaler.Registry()
	switch tok.Kind {
	case token.Command:
		return fmt.Sprintf("command %s, takes %s", tok.Text, nArguments(reg.Command(tok.Text).MaxArgs))
	case token.Subcommand:
		return fmt.Sprintf("subcommand %s, takes %s", tok.Text, nArguments(reg.Subcommand(tok.Text).MaxArgs))
	case token.Identifier:
		if decl, ok := doc.created[tok.Text]; ok {
			return fmt.Sprintf("identifier %s, created at %s", tok.Text, decl.Pos())
		}
		return "identifier " + tok.Text
	}
	return ""
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	dot := lspPositionToIdx(content, params.Position)
	begin := dot
	for begin > 0 && isWordRune(content[begin-1]) {
		begin--
	}
	prefix := content[begin:dot]
	lspRange := lspRangeFromRange(content, diag.Ranging{From: begin, To: dot})

	items := []lsp.CompletionItem{}
	add := func(name string, kind lsp.CompletionItemKind, detail string) {
		if !strings.HasPrefix(name, prefix) {
			return
		}
		items = append(items, lsp.CompletionItem{
			Label:    name,
			Kind:     kind,
			Detail:   detail,
			TextEdit: &lsp.TextEdit{Range: lspRange, NewText: name},
		})
	}
	reg := s.evaler.Registry()
	for _, name := range reg.Names() {
		if reg.Command(name) != nil {
			add(name, lsp.CIKKeyword, "command")
		} else {
			add(name, lsp.CIKFunction, "subcommand")
		}
	}
	for _, name := range s.scan(content).createdNames() {
		add(name, lsp.CIKVariable, "identifier")
	}
	return items, nil
}

// A document is the result of lexing the content of a file. Lexing stops at
// the first error.
type document struct {
	tokens  []token.Token
	created map[string]token.Token
}

func (s *server) scan(content string) document {
	doc := document{created: make(map[string]token.Token)}
	lx := parse.NewLexer(parse.Source{Code: content}, s.evaler.Registry())
	for {
		tok, err := lx.NextToken()
		if err != nil || tok.Kind == token.EndOfInput {
			return doc
		}
		if n := len(doc.tokens); tok.Kind == token.Identifier && n > 0 &&
			doc.tokens[n-1].Kind == token.Command && doc.tokens[n-1].Text == "CREATE" {
			if _, ok := doc.created[tok.Text]; !ok {
				doc.created[tok.Text] = tok
			}
		}
		doc.tokens = append(doc.tokens, tok)
	}
}

func (doc document) createdNames() []string {
	names := make([]string, 0, len(doc.created))
	for name := range doc.created {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *server) publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: s.diagnostics(ctx, uri, content)})
}

func (s *server) diagnostics(ctx context.Context, uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	_, err := s.evaler.ParseContext(ctx, parse.Source{Name: string(uri), Code: content}, parse.ArityStrict)
	if err == nil {
		return []lsp.Diagnostic{}
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		return []lsp.Diagnostic{{Severity: lsp.Error, Source: "cmdl", Message: err.Error()}}
	}
	source := "parse"
	if _, isLex := err.(*parse.LexError); isLex {
		source = "lex"
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromRange(content, d),
		Severity: lsp.Error,
		Source:   source,
		Message:  d.Entry().Message,
	}}
}

func nArguments(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

func isWordRune(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9' || b == '_'
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if r == '\n' && lastCR {
			// The \n of a \r\n sequence does not start a new position.
			lastCR = false
			continue
		}
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r', r == '\n':
			p.Line++
			p.Character = 0
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
