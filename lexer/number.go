package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Numeric type suffixes. The suffix is stripped before parsing.
const (
	suffixInt    = 'i'
	suffixFloat  = 'f'
	suffixDouble = 'd'
)

// parseNumber interprets a numeric lexeme (underscores already removed).
//
// Without a suffix the text is tried as an int64 (with C-style base prefixes)
// and then as a float32. With a suffix only the requested type is tried.
// A trailing 'f' or 'd' is always a suffix, also after a 0x prefix, so
// 0x1f is the float 1 rather than the integer 31.
func parseNumber(lexeme []byte, span Span) (Token, error) {
	text := string(lexeme)
	body := text
	suffix := byte(0)

	switch last := text[len(text)-1]; last {
	case suffixInt, suffixFloat, suffixDouble:
		suffix, body = last, text[:len(text)-1]
	}

	if body == "" || body[len(body)-1] == '.' {
		return Token{}, fmt.Errorf("malformed number %q", text)
	}

	switch suffix {
	case suffixInt:
		v, err := strconv.ParseInt(body, 0, 64)
		if err != nil {
			return Token{}, fmt.Errorf("could not parse %q as int", text)
		}
		return NewInt(v, span), nil

	case suffixFloat:
		v, err := strconv.ParseFloat(hexFloatBody(body), 32)
		if err != nil {
			return Token{}, fmt.Errorf("could not parse %q as float", text)
		}
		return NewFloat(float32(v), span), nil

	case suffixDouble:
		v, err := strconv.ParseFloat(hexFloatBody(body), 64)
		if err != nil {
			return Token{}, fmt.Errorf("could not parse %q as double", text)
		}
		return NewDouble(v, span), nil
	}

	if v, err := strconv.ParseInt(body, 0, 64); err == nil {
		return NewInt(v, span), nil
	}
	if v, err := strconv.ParseFloat(body, 32); err == nil {
		return NewFloat(float32(v), span), nil
	}
	return Token{}, fmt.Errorf("malformed number %q", text)
}

func isHexLiteral(text string) bool {
	return len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// hexFloatBody gives a hexadecimal body the binary exponent ParseFloat
// insists on. Other bodies are returned unchanged.
func hexFloatBody(body string) string {
	if isHexLiteral(body) && !strings.ContainsAny(body, "pP") {
		return body + "p0"
	}
	return body
}
