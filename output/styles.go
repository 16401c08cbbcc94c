// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles provides styled output helpers for the CLI.
// Colours degrade to plain text when the writer is not a terminal.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Identifier returns a styled identifier (yellow).
func (s *Styles) Identifier(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		String()
}

// Literal returns a styled literal value (magenta).
func (s *Styles) Literal(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("5")).
		String()
}

// Punctuation returns a styled operator or bracket (blue).
func (s *Styles) Punctuation(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("4")).
		String()
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Timing returns a styled timing string: red for slow operations,
// dimmed otherwise.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.output.String(text).
			Foreground(s.output.Color("1")).
			String()
	}
	return s.Dim(text)
}
