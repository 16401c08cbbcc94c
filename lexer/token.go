package lexer

import (
	"fmt"
	"strconv"

	"github.com/doyt-lang/doyt/arena"
)

// Kind represents the category of a token scanned from the input.
type Kind uint8

const (
	// Special tokens
	EOF Kind = iota

	// Literals
	INT    // 42, 0x2A, 42i
	FLOAT  // 3.5, 3.5f
	DOUBLE // 3.5d
	BOOL   // true, false
	STRING // 'text' or "text"
	IDENT  // name

	// Keywords
	IF     // if
	ELSE   // else
	FUNC   // func
	GET    // get
	RETURN // return

	// Brackets
	LPAREN // (
	RPAREN // )
	LBRACK // [
	RBRACK // ]
	LBRACE // {
	RBRACE // }

	// Separators
	DOT   // .
	COMMA // ,
	SEMI  // ;
	COLON // :

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	CARET    // ^
	AMP      // &
	PIPE     // |
	BANG     // !
	QUESTION // ?
	HASH     // #
	ASSIGN   // =
	GT       // >
	LT       // <

	// Doubled and compound operators
	ANDAND // &&
	OROR   // ||
	POW    // **
	SHR    // >>
	SHL    // <<
	GE     // >=
	LE     // <=
	EQ     // ==
	NE     // !=

	kindCount
)

var kindNames = [kindCount]string{
	EOF: "EOF",

	INT:    "INT",
	FLOAT:  "FLOAT",
	DOUBLE: "DOUBLE",
	BOOL:   "BOOL",
	STRING: "STRING",
	IDENT:  "IDENT",

	IF:     "if",
	ELSE:   "else",
	FUNC:   "func",
	GET:    "get",
	RETURN: "return",

	LPAREN: "(",
	RPAREN: ")",
	LBRACK: "[",
	RBRACK: "]",
	LBRACE: "{",
	RBRACE: "}",

	DOT:   ".",
	COMMA: ",",
	SEMI:  ";",
	COLON: ":",

	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	CARET:    "^",
	AMP:      "&",
	PIPE:     "|",
	BANG:     "!",
	QUESTION: "?",
	HASH:     "#",
	ASSIGN:   "=",
	GT:       ">",
	LT:       "<",

	ANDAND: "&&",
	OROR:   "||",
	POW:    "**",
	SHR:    ">>",
	SHL:    "<<",
	GE:     ">=",
	LE:     "<=",
	EQ:     "==",
	NE:     "!=",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= IF && k <= RETURN
}

// IsLiteral reports whether k carries a literal value.
func (k Kind) IsLiteral() bool {
	return k >= INT && k <= STRING
}

// IsPunct reports whether k is punctuation or an operator.
func (k Kind) IsPunct() bool {
	return k >= LPAREN && k < kindCount
}

// Value is the payload carried by a token. The set of implementations is
// closed: Int, Float, Double, Bool and Text.
type Value interface {
	isValue()
}

// Int is the payload of an INT token.
type Int int64

// Float is the payload of a FLOAT token.
type Float float32

// Double is the payload of a DOUBLE token.
type Double float64

// Bool is the payload of a BOOL token.
type Bool bool

// Text is the payload of STRING and IDENT tokens: a reference to the interned
// bytes in the run's arena.
type Text arena.Ref

func (Int) isValue()    {}
func (Float) isValue()  {}
func (Double) isValue() {}
func (Bool) isValue()   {}
func (Text) isValue()   {}

// Span locates a token in the source buffer.
type Span struct {
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// Token is a classified lexeme. The kind and payload are always set together
// through the constructors below, so a token cannot carry a payload that does
// not belong to its kind.
type Token struct {
	Kind Kind
	Span
	value Value
}

// NewSymbol builds a payload-free token: EOF, keywords and punctuation.
func NewSymbol(kind Kind, span Span) Token {
	if kind.IsLiteral() || kind == IDENT {
		panic(fmt.Sprintf("lexer: %s requires a payload", kind))
	}
	return Token{Kind: kind, Span: span}
}

// NewInt builds an INT token.
func NewInt(v int64, span Span) Token {
	return Token{Kind: INT, Span: span, value: Int(v)}
}

// NewFloat builds a FLOAT token.
func NewFloat(v float32, span Span) Token {
	return Token{Kind: FLOAT, Span: span, value: Float(v)}
}

// NewDouble builds a DOUBLE token.
func NewDouble(v float64, span Span) Token {
	return Token{Kind: DOUBLE, Span: span, value: Double(v)}
}

// NewBool builds a BOOL token.
func NewBool(v bool, span Span) Token {
	return Token{Kind: BOOL, Span: span, value: Bool(v)}
}

// NewString builds a STRING token referencing interned text.
func NewString(ref arena.Ref, span Span) Token {
	return Token{Kind: STRING, Span: span, value: Text(ref)}
}

// NewIdent builds an IDENT token referencing interned text.
func NewIdent(ref arena.Ref, span Span) Token {
	return Token{Kind: IDENT, Span: span, value: Text(ref)}
}

// Value returns the token payload, or nil for payload-free kinds.
func (t Token) Value() Value {
	return t.value
}

// Int returns the payload of an INT token.
func (t Token) Int() (int64, bool) {
	v, ok := t.value.(Int)
	return int64(v), ok
}

// Float returns the payload of a FLOAT token.
func (t Token) Float() (float32, bool) {
	v, ok := t.value.(Float)
	return float32(v), ok
}

// Double returns the payload of a DOUBLE token.
func (t Token) Double() (float64, bool) {
	v, ok := t.value.(Double)
	return float64(v), ok
}

// Bool returns the payload of a BOOL token.
func (t Token) Bool() (bool, bool) {
	v, ok := t.value.(Bool)
	return bool(v), ok
}

// Ref returns the arena reference of a STRING or IDENT token.
func (t Token) Ref() (arena.Ref, bool) {
	v, ok := t.value.(Text)
	return arena.Ref(v), ok
}

// Lexeme returns the raw source text of the token.
// This allocation only happens when the text is actually needed.
func (t Token) Lexeme(source []byte) string {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Format renders the token payload for display. Text payloads are resolved
// through the arena that owns them.
func (t Token) Format(a *arena.Arena) string {
	switch v := t.value.(type) {
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(v))
	case Text:
		if a == nil {
			return ""
		}
		return a.String(arena.Ref(v))
	default:
		return t.Kind.String()
	}
}
