package parse

import (
	"context"

	"src.cmdl.sh/pkg/token"
)

// StreamBuffer is the capacity of the channel between the producer and the
// consumer of a Stream.
const StreamBuffer = 16

// Stream is a TokenSource that pulls tokens from another TokenSource on a
// separate goroutine. Tokens arrive in the order and with the positions the
// underlying source produced them.
type Stream struct {
	ctx       context.Context
	src       Source
	ch        <-chan lexResult
	last      lexResult
	started   bool
	retreated bool
}

type lexResult struct {
	tok token.Token
	err error
}

// NewStream starts lexing ts on a new goroutine. The goroutine exits after
// producing an EndOfInput token or an error, or when ctx is cancelled.
func NewStream(ctx context.Context, ts TokenSource) *Stream {
	ch := make(chan lexResult, StreamBuffer)
	go produce(ctx, ts, ch)
	s := &Stream{ctx: ctx, ch: ch}
	if sr, ok := ts.(sourcer); ok {
		s.src = sr.Source()
	}
	return s
}

// Source returns the source of the underlying TokenSource, if it has one.
func (s *Stream) Source() Source { return s.src }

var _ TokenSource = (*Stream)(nil)

func produce(ctx context.Context, ts TokenSource, ch chan<- lexResult) {
	defer close(ch)
	for {
		tok, err := ts.NextToken()
		select {
		case ch <- lexResult{tok, err}:
		case <-ctx.Done():
			return
		}
		if err != nil || tok.Kind == token.EndOfInput {
			return
		}
	}
}

// NextToken implements [TokenSource]. After the producer has finished, the
// final token and error are returned repeatedly. If the stream was cancelled
// before that, the context's error is returned.
func (s *Stream) NextToken() (token.Token, error) {
	if s.retreated {
		s.retreated = false
		return s.last.tok, s.last.err
	}
	r, ok := <-s.ch
	if !ok {
		if !s.started || (s.last.err == nil && s.last.tok.Kind != token.EndOfInput) {
			s.last = lexResult{err: s.ctx.Err()}
		}
		return s.last.tok, s.last.err
	}
	s.started = true
	s.last = r
	return r.tok, r.err
}

// Retreat implements [TokenSource].
func (s *Stream) Retreat() {
	if s.started {
		s.retreated = true
	}
}
