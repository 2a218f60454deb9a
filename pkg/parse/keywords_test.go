package parse

import "src.cmdl.sh/pkg/token"

type keyword struct {
	kind    token.Kind
	maxArgs int
}

type testKeywords map[string]keyword

func (kw testKeywords) Classify(name string) (token.Kind, int) {
	if k, ok := kw[name]; ok {
		return k.kind, k.maxArgs
	}
	return token.Identifier, 0
}

var keywords = testKeywords{
	"CREATE": {token.Command, 2},
	"PRINT":  {token.Command, 1},
	"ADD":    {token.Subcommand, 2},
	"MUL":    {token.Subcommand, 2},
	"NEG":    {token.Subcommand, 1},
}

// Lexes all of code, returning the tokens up to and including EndOfInput, or
// the first error.
func lexAll(code string) ([]token.Token, error) {
	return drain(NewLexer(Source{Name: "[test]", Code: code}, keywords))
}

func drain(ts TokenSource) ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := ts.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EndOfInput {
			return toks, nil
		}
	}
}
