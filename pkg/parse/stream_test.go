package parse

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.cmdl.sh/pkg/token"
)

func TestStream_MatchesLexer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, test := range lexerTests {
		src := Source{Name: "[test]", Code: test.code}
		got, err := drain(NewStream(ctx, NewLexer(src, keywords)))
		if err != nil {
			t.Errorf("stream %q: error %v", test.code, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("stream %q: (-want +got):\n%s", test.code, diff)
		}
	}
}

func TestStream_Parse(t *testing.T) {
	code := "CREATE x ADD 1 MUL 2 3\nPRINT x PRINT |done|"
	src := Source{Name: "[test]", Code: code}

	direct, err := Parse(NewLexer(src, keywords), Config{})
	if err != nil {
		t.Fatal(err)
	}
	streamed, err := Parse(NewStream(context.Background(), NewLexer(src, keywords)), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := sexpr(streamed), sexpr(direct); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestStream_Error(t *testing.T) {
	src := Source{Name: "[test]", Code: "PRINT 1abc PRINT x"}
	s := NewStream(context.Background(), NewLexer(src, keywords))
	if s.Source() != src {
		t.Errorf("Source() -> %v, want %v", s.Source(), src)
	}
	toks, err := drain(s)
	if len(toks) != 1 || GetLexError(err) == nil {
		t.Fatalf("got %v, %v; want one token and a LexError", toks, err)
	}
	// The error is sticky, and Retreat delivers it again.
	if _, err2 := s.NextToken(); err2 != err {
		t.Errorf("second NextToken -> %v, want %v", err2, err)
	}
	s.Retreat()
	if _, err2 := s.NextToken(); err2 != err {
		t.Errorf("NextToken after Retreat -> %v, want %v", err2, err)
	}
}

func TestStream_Retreat(t *testing.T) {
	s := NewStream(context.Background(),
		NewLexer(Source{Code: "PRINT x"}, keywords))
	s.Retreat()
	first, _ := s.NextToken()
	s.Retreat()
	again, _ := s.NextToken()
	if first != again || first.Text != "PRINT" {
		t.Errorf("got %v then %v, want PRINT twice", first, again)
	}
}

type endless struct{}

func (endless) NextToken() (token.Token, error) {
	return token.Token{Kind: token.Identifier, Text: "x"}, nil
}

func (endless) Retreat() {}

func TestStream_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewStream(ctx, endless{})
	cancel()
	for i := 0; i < 10000; i++ {
		if _, err := s.NextToken(); err != nil {
			if !errors.Is(err, context.Canceled) {
				t.Errorf("got error %v, want context.Canceled", err)
			}
			return
		}
	}
	t.Errorf("stream did not stop after cancellation")
}
