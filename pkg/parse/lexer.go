package parse

import (
	"fmt"
	"unicode/utf8"

	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/token"
)

// Keywords classifies names into commands, subcommands and plain
// identifiers. It is implemented by the command registry.
type Keywords interface {
	// Classify returns token.Command or token.Subcommand along with the
	// maximum number of arguments if name is registered, and
	// token.Identifier otherwise.
	Classify(name string) (kind token.Kind, maxArgs int)
}

// TokenSource is a sequence of tokens with one step of backtracking.
type TokenSource interface {
	// NextToken returns the next token. Once the input is exhausted, it keeps
	// returning an EndOfInput token.
	NextToken() (token.Token, error)
	// Retreat restores the position from before the most recent NextToken
	// call, so that the same token is returned again. Calling it twice in a
	// row has the same effect as calling it once.
	Retreat()
}

// Lexer turns source code into tokens lazily.
type Lexer struct {
	src  Source
	kw   Keywords
	cur  lexState
	prev lexState
}

type lexState struct {
	pos, line, col int
}

// NewLexer creates a Lexer for the given source. If kw is nil, every name is
// an identifier.
func NewLexer(src Source, kw Keywords) *Lexer {
	start := lexState{0, 1, 1}
	return &Lexer{src: src, kw: kw, cur: start, prev: start}
}

var _ TokenSource = (*Lexer)(nil)

const eof rune = -1

func (lx *Lexer) peek() rune {
	if lx.cur.pos >= len(lx.src.Code) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(lx.src.Code[lx.cur.pos:])
	return r
}

func (lx *Lexer) peekAt(offset int) rune {
	if lx.cur.pos+offset >= len(lx.src.Code) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(lx.src.Code[lx.cur.pos+offset:])
	return r
}

func (lx *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(lx.src.Code[lx.cur.pos:])
	lx.cur.pos += size
	if r == '\n' {
		lx.cur.line++
		lx.cur.col = 1
	} else {
		lx.cur.col++
	}
}

// Retreat implements [TokenSource].
func (lx *Lexer) Retreat() { lx.cur = lx.prev }

// NextToken implements [TokenSource].
func (lx *Lexer) NextToken() (token.Token, error) {
	lx.prev = lx.cur
	lx.skipBlanks()
	start := lx.cur
	r := lx.peek()
	switch {
	case r == eof:
		return lx.token(token.EndOfInput, start, 0), nil
	case isDigit(r):
		return lx.number(start)
	case r == '|':
		return lx.string(start)
	case isWordStart(r):
		return lx.word(start), nil
	default:
		lx.advance()
		return lx.token(token.InvalidIdentifier, start, 0),
			lx.error(UnexpectedCharacter, start, fmt.Sprintf("unexpected character %q", r))
	}
}

// Skips whitespace, comments and the grouping characters ( and ).
func (lx *Lexer) skipBlanks() {
	for {
		switch r := lx.peek(); {
		case r == '#':
			for r := lx.peek(); r != eof && r != '\n'; r = lx.peek() {
				lx.advance()
			}
		case isSpace(r) || r == '(' || r == ')':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *Lexer) number(start lexState) (token.Token, error) {
	kind := token.IntLiteral
	lx.skipWhile(isDigit)
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		kind = token.DoubleLiteral
		lx.advance()
		lx.skipWhile(isDigit)
	}
	if isWordStart(lx.peek()) {
		lx.skipWhile(isWordPart)
		tok := lx.token(token.InvalidIdentifier, start, 0)
		return tok, lx.error(InvalidIdentifier, start,
			fmt.Sprintf("invalid identifier %q: identifiers cannot start with a digit", tok.Text))
	}
	return lx.token(kind, start, 0), nil
}

func (lx *Lexer) string(start lexState) (token.Token, error) {
	lx.advance()
	for lx.peek() != '|' {
		if lx.peek() == eof {
			return lx.token(token.EndOfInput, lx.cur, 0),
				lx.error(UnexpectedEOF, start, "unexpected end of input in string literal")
		}
		lx.advance()
	}
	lx.advance()
	tok := lx.token(token.StringLiteral, start, 0)
	tok.Text = tok.Text[1 : len(tok.Text)-1]
	return tok, nil
}

func (lx *Lexer) word(start lexState) token.Token {
	lx.skipWhile(isWordPart)
	name := lx.src.Code[start.pos:lx.cur.pos]
	kind, maxArgs := token.Identifier, 0
	if lx.kw != nil {
		kind, maxArgs = lx.kw.Classify(name)
	}
	return lx.token(kind, start, maxArgs)
}

func (lx *Lexer) skipWhile(f func(rune) bool) {
	for f(lx.peek()) {
		lx.advance()
	}
}

// Returns a token of the given kind spanning from start to the current
// position.
func (lx *Lexer) token(kind token.Kind, start lexState, maxArgs int) token.Token {
	return token.Token{
		Kind: kind, Text: lx.src.Code[start.pos:lx.cur.pos],
		Line: start.line, Column: start.col, MaxArgs: maxArgs,
		From: start.pos, To: lx.cur.pos,
	}
}

// Returns a LexError spanning from start to the current position.
func (lx *Lexer) error(code diag.Code, start lexState, msg string) *LexError {
	return diag.NewError[LexErrorTag](code, lx.src.Name, lx.src.Code,
		diag.Ranging{From: start.pos, To: lx.cur.pos}, msg)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isWordStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isWordPart(r rune) bool { return isWordStart(r) || isDigit(r) }

// Source returns the source being lexed.
func (lx *Lexer) Source() Source { return lx.src }
