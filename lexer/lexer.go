// Package lexer turns doyt source text into a typed token stream.
//
// The lexer is a single-pass, character-by-character state machine:
// - No backtracking: every iteration starts past the previous one
// - Variable-length payloads (identifiers, strings) live in an arena
// - Identical text is interned and shared between tokens
// - Pre-allocated token buffer
//
// Productions are tried in a fixed priority order on the current character
// and one character of lookahead: end of input, whitespace, comments,
// numbers, punctuation, strings, identifiers. Anything left over is an error.
package lexer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/doyt-lang/doyt/arena"
	"github.com/doyt-lang/doyt/telemetry"
)

// Lexer tokenizes doyt source code.
type Lexer struct {
	cursor   *Cursor
	filename string // Filename for error reporting
	tokens   []Token
	arena    *arena.Arena
	interner *Interner
	scratch  []byte // Reused buffer for decoded lexemes

	blockSize  int
	rawStrings bool
	log        logrus.FieldLogger

	highWater int // Offset at which the previous iteration started
	done      bool
	err       error
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithBlockSize sets the base block size of the run's arena.
func WithBlockSize(size int) Option {
	return func(l *Lexer) {
		l.blockSize = size
	}
}

// WithArena makes the lexer allocate payloads from a instead of a fresh arena.
func WithArena(a *arena.Arena) Option {
	return func(l *Lexer) {
		l.arena = a
	}
}

// WithRawStrings disables backslash escape decoding in string literals;
// their content is then copied verbatim.
func WithRawStrings() Option {
	return func(l *Lexer) {
		l.rawStrings = true
	}
}

// WithLogger enables step-by-step narration of the scan at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Lexer) {
		l.log = log
	}
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string, opts ...Option) *Lexer {
	l := &Lexer{
		cursor:    NewCursor(source),
		filename:  filename,
		highWater: -1,
	}
	for _, opt := range opts {
		opt(l)
	}

	// Operators and one-letter names make doyt denser than prose;
	// roughly one token per four bytes.
	l.tokens = make([]Token, 0, len(source)/4+16)

	if l.arena == nil {
		l.arena = arena.New(l.blockSize)
	}

	internerCap := len(source) / 40
	if internerCap < 64 {
		internerCap = 64
	}
	l.interner = NewInterner(l.arena, internerCap)

	return l
}

// Tokenize lexes source in one call.
func Tokenize(ctx context.Context, filename string, source []byte, opts ...Option) (*Stream, error) {
	return NewLexer(source, filename, opts...).ScanAll(ctx)
}

// Interner returns the string interning pool, useful for the parser.
func (l *Lexer) Interner() *Interner {
	return l.interner
}

// ScanAll lexes the entire source. On failure the returned stream holds the
// tokens produced before the error. A lexer cannot be resumed; calling
// ScanAll again returns the same result.
func (l *Lexer) ScanAll(ctx context.Context) (*Stream, error) {
	if !l.done {
		timer := telemetry.StartTimer(ctx, "lexer.scan")
		l.err = l.run()
		l.done = true
		timer.End()
	}

	return &Stream{
		Tokens:   l.tokens,
		Arena:    l.arena,
		Consumed: l.cursor.Pos(),
	}, l.err
}

func (l *Lexer) run() error {
	cur := l.cursor

	for {
		if cur.AtEnd() {
			l.emit(NewSymbol(EOF, cur.span()))
			return nil
		}

		// The scanner never rolls back. Starting twice at the same offset
		// means a production consumed nothing and we would loop forever.
		pos := cur.Pos()
		if pos <= l.highWater {
			return l.errorf(Hazard, cur.span(), "reached source offset %d multiple times", pos)
		}
		l.highWater = pos

		// Every token but EOF consumes at least one byte.
		if len(l.tokens)+1 > cur.Len() {
			return l.errorf(Hazard, cur.span(), "token stream outgrew the source (%d tokens for %d bytes)", len(l.tokens)+1, cur.Len())
		}

		c0, c1 := cur.Peek(0), cur.Peek(1)
		if l.log != nil {
			l.log.WithFields(logrus.Fields{
				"char":   visibleChar(c0),
				"offset": pos,
				"line":   cur.Line(),
			}).Debug("constructing token")
		}

		if isSpace(c0) {
			l.skipWhitespace()
			continue
		}

		if c0 == '/' && c1 == '/' {
			if err := l.skipComment(); err != nil {
				return err
			}
			continue
		}

		if isDigit(c0) || (c0 == '.' && isDigit(c1)) {
			if err := l.scanNumber(); err != nil {
				return err
			}
			continue
		}

		if kind, width := matchPunct(c0, c1); width > 0 {
			span := cur.span()
			for i := 0; i < width; i++ {
				cur.Advance()
			}
			span.End = cur.Pos()
			l.emit(NewSymbol(kind, span))
			continue
		}

		if c0 == '"' || c0 == '\'' {
			if err := l.scanString(); err != nil {
				return err
			}
			continue
		}

		if isAlpha(c0) || c0 == '_' {
			l.scanIdent()
			continue
		}

		return l.errorf(UnmatchedCharacter, cur.span(), "unmatched character %s at offset %d", visibleChar(c0), pos)
	}
}

// skipWhitespace skips a run of spaces, tabs and line breaks.
func (l *Lexer) skipWhitespace() {
	n := 0
	for c := l.cursor.Peek(0); isSpace(c); c = l.cursor.Advance() {
		n++
	}
	if l.log != nil {
		l.log.WithField("count", n).Debug("skipped whitespace")
	}
}

// skipComment skips "// ..." up to and including the newline, or "//( ... )"
// up to and including the matching parenthesis.
func (l *Lexer) skipComment() error {
	cur := l.cursor
	span := cur.span()
	cur.Advance()
	c := cur.Advance() // consumes both slashes

	if c != '(' {
		for !cur.AtEnd() && cur.Peek(0) != '\n' {
			cur.Advance()
		}
		cur.Advance() // newline, if any
		return nil
	}

	depth := 0
	for !cur.AtEnd() {
		switch cur.Peek(0) {
		case '(':
			depth++
		case ')':
			depth--
		}
		cur.Advance()
		if depth == 0 {
			return nil
		}
	}
	return l.errorf(UnterminatedConstruct, span, "unterminated comment: missing ')'")
}

// scanNumber scans a maximal run of alphanumerics, '.', '_' (dropped) and '-'
// directly after an exponent marker, then interprets it.
func (l *Lexer) scanNumber() error {
	cur := l.cursor
	span := cur.span()

	l.scratch = l.scratch[:0]
	for c := cur.Peek(0); isAlnum(c) || c == '.' || c == '_' || (c == '-' && l.afterExponent()); c = cur.Advance() {
		if c != '_' {
			l.scratch = append(l.scratch, c)
		}
	}
	span.End = cur.Pos()

	if len(l.scratch) == 0 {
		return l.errorf(Hazard, span, "empty numeric lexeme")
	}

	tok, err := parseNumber(l.scratch, span)
	if err != nil {
		return l.errorf(MalformedLiteral, span, "%s", err)
	}
	l.emit(tok)
	return nil
}

func (l *Lexer) afterExponent() bool {
	n := len(l.scratch)
	return n > 0 && (l.scratch[n-1] == 'e' || l.scratch[n-1] == 'E')
}

// scanString scans a quoted literal. The opening quote is also the closing
// one. Escapes are decoded unless raw strings are configured.
func (l *Lexer) scanString() error {
	cur := l.cursor
	span := cur.span()
	quote := cur.Peek(0)

	l.scratch = l.scratch[:0]
	c := cur.Advance()
	for {
		if cur.AtEnd() {
			return l.errorf(UnterminatedConstruct, span, "unterminated string literal")
		}
		if c == quote {
			cur.Advance()
			break
		}
		if c == '\\' && !l.rawStrings {
			if decoded, ok := decodeEscape(cur.Peek(1)); ok {
				l.scratch = append(l.scratch, decoded)
				cur.Advance()
				c = cur.Advance()
				continue
			}
			// Unknown escapes keep their backslash.
		}
		l.scratch = append(l.scratch, c)
		c = cur.Advance()
	}
	span.End = cur.Pos()

	l.emit(NewString(l.interner.Intern(l.scratch), span))
	return nil
}

// scanIdent scans an identifier, keyword or boolean literal.
func (l *Lexer) scanIdent() {
	cur := l.cursor
	span := cur.span()
	for c := cur.Peek(0); isAlnum(c) || c == '_'; c = cur.Advance() {
	}
	span.End = cur.Pos()

	word := cur.Slice(span.Start, span.End)
	switch string(word) {
	case "true":
		l.emit(NewBool(true, span))
	case "false":
		l.emit(NewBool(false, span))
	default:
		if kind, ok := keywordKind(word); ok {
			l.emit(NewSymbol(kind, span))
			return
		}
		l.emit(NewIdent(l.interner.Intern(word), span))
	}
}

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
	if l.log != nil {
		l.log.WithFields(logrus.Fields{
			"kind":  tok.Kind.String(),
			"value": tok.Format(l.arena),
			"line":  tok.Line,
		}).Debug("emitted token")
	}
}

func (l *Lexer) errorf(kind ErrorKind, span Span, format string, args ...any) error {
	err := &Error{
		Kind: kind,
		Pos: Position{
			Filename: l.filename,
			Offset:   span.Start,
			Line:     span.Line,
			Column:   span.Column,
		},
		Message: fmt.Sprintf(format, args...),
	}
	if l.log != nil {
		l.log.WithField("kind", kind.String()).Debug(err.Message)
	}
	return err
}

// keywordKind returns the token kind for a reserved word.
func keywordKind(word []byte) (Kind, bool) {
	// switch on string(word) does not allocate
	switch string(word) {
	case "if":
		return IF, true
	case "else":
		return ELSE, true
	case "func":
		return FUNC, true
	case "get":
		return GET, true
	case "return":
		return RETURN, true
	}
	return 0, false
}

// matchPunct returns the punctuation kind starting with c0 and its width in
// bytes. Compound forms win over their single-character prefix. A zero width
// means no punctuation matched.
func matchPunct(c0, c1 byte) (Kind, int) {
	switch c0 {
	case '(':
		return LPAREN, 1
	case ')':
		return RPAREN, 1
	case '[':
		return LBRACK, 1
	case ']':
		return RBRACK, 1
	case '{':
		return LBRACE, 1
	case '}':
		return RBRACE, 1
	case '.':
		return DOT, 1
	case ',':
		return COMMA, 1
	case ';':
		return SEMI, 1
	case ':':
		return COLON, 1
	case '+':
		return PLUS, 1
	case '-':
		return MINUS, 1
	case '/':
		return SLASH, 1
	case '%':
		return PERCENT, 1
	case '^':
		return CARET, 1
	case '?':
		return QUESTION, 1
	case '#':
		return HASH, 1

	case '&':
		if c1 == '&' {
			return ANDAND, 2
		}
		return AMP, 1
	case '|':
		if c1 == '|' {
			return OROR, 2
		}
		return PIPE, 1
	case '*':
		if c1 == '*' {
			return POW, 2
		}
		return STAR, 1
	case '>':
		switch c1 {
		case '>':
			return SHR, 2
		case '=':
			return GE, 2
		}
		return GT, 1
	case '<':
		switch c1 {
		case '<':
			return SHL, 2
		case '=':
			return LE, 2
		}
		return LT, 1
	case '=':
		if c1 == '=' {
			return EQ, 2
		}
		return ASSIGN, 1
	case '!':
		if c1 == '=' {
			return NE, 2
		}
		return BANG, 1
	}
	return EOF, 0
}

// decodeEscape maps the character after a backslash to the byte it denotes.
func decodeEscape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'v':
		return '\v', true
	case '0':
		return 0, true
	case '\\', '\'', '"':
		return c, true
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
