package lexer

import (
	"context"
	"io"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Definition adapts the lexer to participle, so a grammar written with
// github.com/alecthomas/participle/v2 can consume doyt tokens directly.
//
// Token values are the decoded text for STRING and IDENT tokens and the raw
// source lexeme for everything else. Symbol names are the Kind names
// ("INT", "IDENT", "if", ">=", ...).
type Definition struct {
	opts []Option
}

var (
	_ plexer.Definition       = (*Definition)(nil)
	_ plexer.BytesDefinition  = (*Definition)(nil)
	_ plexer.StringDefinition = (*Definition)(nil)
)

// NewDefinition creates a participle lexer definition using opts for every run.
func NewDefinition(opts ...Option) *Definition {
	return &Definition{opts: opts}
}

// Symbols returns the mapping of symbol names to participle token types.
func (d *Definition) Symbols() map[string]plexer.TokenType {
	symbols := make(map[string]plexer.TokenType, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		symbols[k.String()] = participleType(k)
	}
	return symbols
}

// Lex reads all of r and tokenizes it.
func (d *Definition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexBytes(filename, source)
}

// LexString tokenizes input.
func (d *Definition) LexString(filename string, input string) (plexer.Lexer, error) {
	return d.LexBytes(filename, []byte(input))
}

// LexBytes tokenizes input. A lexing error is not returned here: participle
// receives the tokens produced before it and then the error from Next.
func (d *Definition) LexBytes(filename string, input []byte) (plexer.Lexer, error) {
	stream, err := Tokenize(context.Background(), filename, input, d.opts...)
	return &participleLexer{
		stream:   stream,
		source:   input,
		filename: filename,
		err:      err,
	}, nil
}

// participleType maps a Kind to a participle token type. EOF must map to
// participle's own EOF type.
func participleType(k Kind) plexer.TokenType {
	if k == EOF {
		return plexer.EOF
	}
	return plexer.TokenType(k)
}

type participleLexer struct {
	stream   *Stream
	source   []byte
	filename string
	next     int
	err      error
}

func (p *participleLexer) Next() (plexer.Token, error) {
	if p.next >= len(p.stream.Tokens) {
		if p.err != nil {
			return plexer.Token{}, p.err
		}
		// Keep answering EOF once the stream is drained.
		pos := p.position(len(p.source), 1, 1)
		if n := len(p.stream.Tokens); n > 0 {
			last := p.stream.Tokens[n-1]
			pos = p.position(last.End, last.Line, last.Column)
		}
		return plexer.Token{Type: plexer.EOF, Pos: pos}, nil
	}

	tok := p.stream.Tokens[p.next]
	p.next++

	value := tok.Lexeme(p.source)
	if tok.Kind == STRING || tok.Kind == IDENT {
		value = p.stream.Text(tok)
	}

	return plexer.Token{
		Type:  participleType(tok.Kind),
		Value: value,
		Pos:   p.position(tok.Start, tok.Line, tok.Column),
	}, nil
}

func (p *participleLexer) position(offset, line, column int) plexer.Position {
	return plexer.Position{
		Filename: p.filename,
		Offset:   offset,
		Line:     line,
		Column:   column,
	}
}
