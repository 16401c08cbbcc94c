package lexer

import (
	"context"
	"testing"
)

func FuzzLexer(f *testing.F) {
	seeds := []string{
		// Punctuation
		"(", ")", "[", "]", "{", "}", ".", ",", ";", ":",
		"+", "-", "*", "/", "%", "^", "&", "|", "!", "?", "#", "=", ">", "<",
		"&&", "||", "**", ">>", "<<", ">=", "<=", "==", "!=",

		// Numbers
		"0", "42", "1_000", "0x1F", "0x1fi", "010", "1.5", ".5", "1.5e10", "1e-3",
		"7i", "7f", "7d", "1.", "9223372036854775808", "1e99", "1e999d",

		// Strings
		`"hello"`, `'single'`, `"a\tb\n"`, `"\q"`, `"unterminated`, `""`,

		// Identifiers and keywords
		"x", "_under", "if", "else", "func", "get", "return", "true", "false", "iffy",

		// Comments
		"// line", "//( block )", "//( (nested) )", "//( open",

		// Whitespace
		" ", "\t", "\n", "\r\n", "\v\f",

		// Edge cases
		"",
		"\x00",
		"@",
		"\xff",
		"func f(a, b) { return a ** b >= 2; }",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Lexer panicked on input %q: %v", data, r)
			}
		}()

		stream, err := Tokenize(context.Background(), "fuzz-test", data)
		if stream == nil {
			t.Fatal("Tokenize returned a nil stream")
		}

		// A run never produces more tokens than there are bytes, plus EOF.
		if len(stream.Tokens) > len(data)+1 {
			t.Errorf("%d tokens for %d bytes", len(stream.Tokens), len(data))
		}

		if err != nil {
			if stream.Complete() {
				t.Errorf("failed stream ends with EOF: %v", err)
			}
			return
		}

		if !stream.Complete() {
			t.Fatal("successful stream does not end with EOF")
		}
		if stream.Consumed != len(data) {
			t.Errorf("consumed %d of %d bytes", stream.Consumed, len(data))
		}

		prevEnd := 0
		for i, tok := range stream.Tokens {
			if tok.Line < 1 {
				t.Errorf("Token %d has invalid line %d", i, tok.Line)
			}
			if tok.Column < 1 {
				t.Errorf("Token %d has invalid column %d", i, tok.Column)
			}
			if tok.Start > tok.End {
				t.Errorf("Token %d: Start=%d > End=%d", i, tok.Start, tok.End)
			}
			if tok.Start < prevEnd {
				t.Errorf("Token %d starts at %d inside the previous token", i, tok.Start)
			}
			if tok.End > len(data) {
				t.Errorf("Token %d: End=%d > data length %d", i, tok.End, len(data))
			}
			prevEnd = tok.End
		}
	})
}
