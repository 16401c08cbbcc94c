package lexer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal lexer error.
type ErrorKind uint8

const (
	// MalformedLiteral: numeric text does not parse as its requested or
	// inferred type.
	MalformedLiteral ErrorKind = iota + 1
	// UnterminatedConstruct: a string literal or bracketed comment reached
	// the end of input before its terminator.
	UnterminatedConstruct
	// UnmatchedCharacter: no production claims the current character.
	UnmatchedCharacter
	// Hazard: the scanner revisited input or produced an impossible stream.
	// This indicates a lexer bug, not a defect in the input.
	Hazard
)

// Sentinels for matching error classes with errors.Is.
var (
	ErrMalformedLiteral      = errors.New("malformed literal")
	ErrUnterminatedConstruct = errors.New("unterminated construct")
	ErrUnmatchedCharacter    = errors.New("unmatched character")
	ErrHazard                = errors.New("internal hazard")
)

var errorKindSentinels = map[ErrorKind]error{
	MalformedLiteral:      ErrMalformedLiteral,
	UnterminatedConstruct: ErrUnterminatedConstruct,
	UnmatchedCharacter:    ErrUnmatchedCharacter,
	Hazard:                ErrHazard,
}

func (k ErrorKind) String() string {
	if err, ok := errorKindSentinels[k]; ok {
		return err.Error()
	}
	return "unknown"
}

// Position is a location in a source file.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Error is a fatal lexer error. Tokenization stops at the first one.
type Error struct {
	Kind    ErrorKind
	Pos     Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// GetPosition returns where the error occurred.
func (e *Error) GetPosition() Position {
	return e.Pos
}

// Unwrap exposes the class sentinel so errors.Is(err, ErrHazard) works.
func (e *Error) Unwrap() error {
	return errorKindSentinels[e.Kind]
}

// visibleChar renders a byte so that whitespace and control characters stay
// readable in messages.
func visibleChar(c byte) string {
	switch c {
	case ' ':
		return "<space>"
	case '\n':
		return "<newline>"
	case '\t':
		return "<tab>"
	case '\r':
		return `<\r>`
	case 0:
		return `<\0>`
	}
	if c < 0x20 || c >= 0x7f {
		return fmt.Sprintf("<0x%02x>", c)
	}
	return string(c)
}
