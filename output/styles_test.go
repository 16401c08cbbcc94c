package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.True(t, styles != nil)
	assert.True(t, styles.output != nil)
}

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name  string
		style func(string) string
		input string
	}{
		{"Identifier", styles.Identifier, "counter"},
		{"Literal", styles.Literal, "3.5"},
		{"Punctuation", styles.Punctuation, ">="},
		{"Keyword", styles.Keyword, "return"},
		{"Dim", styles.Dim, "12:4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.style(tt.input), tt.input)
		})
	}
}

func TestStylesPlainWhenNotTerminal(t *testing.T) {
	// A bytes.Buffer is not a TTY, so no escape sequences are emitted.
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Equal(t, "counter", styles.Identifier("counter"))
}

func TestStylesTiming(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	t.Run("FastOperation", func(t *testing.T) {
		assert.Contains(t, styles.Timing("5ms", false), "5ms")
	})

	t.Run("SlowOperation", func(t *testing.T) {
		assert.Contains(t, styles.Timing("500ms", true), "500ms")
	})
}
