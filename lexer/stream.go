package lexer

import (
	"golang.org/x/exp/slices"

	"github.com/doyt-lang/doyt/arena"
)

// Stream is the ordered output of one tokenization run together with the
// arena that owns every text payload referenced by its tokens.
//
// A stream returned alongside an error holds the tokens produced before the
// failure and has no trailing EOF token.
type Stream struct {
	Tokens   []Token
	Arena    *arena.Arena
	Consumed int // Source bytes consumed by the scanner
}

// Len returns the number of tokens in the stream.
func (s *Stream) Len() int {
	return len(s.Tokens)
}

// Complete reports whether the stream ends with an EOF token.
func (s *Stream) Complete() bool {
	return len(s.Tokens) > 0 && s.Tokens[len(s.Tokens)-1].Kind == EOF
}

// Text returns the decoded text of a STRING or IDENT token, or "" for any
// other kind.
func (s *Stream) Text(tok Token) string {
	ref, ok := tok.Ref()
	if !ok {
		return ""
	}
	return s.Arena.String(ref)
}

// Equal reports whether two streams are structurally identical: same kinds,
// positions and payloads, with text payloads compared by content since each
// run owns a separate arena.
func (s *Stream) Equal(other *Stream) bool {
	if s.Consumed != other.Consumed {
		return false
	}
	return slices.EqualFunc(s.Tokens, other.Tokens, func(a, b Token) bool {
		if a.Kind != b.Kind || a.Span != b.Span {
			return false
		}
		if _, ok := a.Ref(); ok {
			return s.Text(a) == other.Text(b)
		}
		return a.value == b.value
	})
}

// Stats are the aggregate counters reported for a run.
type Stats struct {
	Consumed int
	Tokens   int
	Arena    arena.Stats
}

// Stats returns the counters for the run that produced s.
func (s *Stream) Stats() Stats {
	return Stats{
		Consumed: s.Consumed,
		Tokens:   len(s.Tokens),
		Arena:    s.Arena.Stats(),
	}
}
