// Package errors provides error formatting infrastructure for doyt lexer errors.
// It separates error formatting from the lexer itself, allowing errors to be
// rendered in multiple formats (text, JSON) for different consumers.
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output with source context
//   - JSONFormatter: Formats errors as structured JSON for tools and editors
//
// Error types remain in the lexer package, while this package handles the
// presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/doyt-lang/doyt/lexer"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// positioned is implemented by errors that know where they happened.
type positioned interface {
	GetPosition() lexer.Position
	Error() string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sourceContent []byte // Optional source content for error context
	contextLines  int
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content for error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// WithContextLines sets how many lines are shown before the error line.
func WithContextLines(n int) TextFormatterOption {
	return func(tf *TextFormatter) {
		if n >= 0 {
			tf.contextLines = n
		}
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{contextLines: 2}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Positioned errors get the surrounding
// source lines and a caret when source content is available.
func (tf *TextFormatter) Format(err error) string {
	var e positioned
	if !asPositioned(err, &e) {
		return err.Error()
	}
	if tf.sourceContent == nil {
		return err.Error()
	}
	return tf.formatWithSourceContext(e.GetPosition(), err.Error(), tf.sourceContent)
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatWithSourceContext shows the error message followed by the source
// lines leading up to the error position and a caret under the column.
func (tf *TextFormatter) formatWithSourceContext(pos lexer.Position, message string, sourceContent []byte) string {
	var buf bytes.Buffer

	buf.WriteString(message)
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(sourceContent), "\n")

	errLine := pos.Line - 1 // pos.Line is 1-based
	if errLine < 0 || errLine >= len(sourceLines) {
		return message
	}

	startLine := errLine - tf.contextLines
	if startLine < 0 {
		startLine = 0
	}
	endLine := errLine + 1
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		line := strings.TrimSuffix(sourceLines[i], "\r")
		buf.WriteString("   ")
		buf.WriteString(line)
		buf.WriteByte('\n')

		if i == errLine && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(CaretPadding(line, pos.Column-1))
			buf.WriteString("^\n")
		}
	}

	return buf.String()
}

// CaretPadding returns the whitespace that lines a caret up under the byte
// at offset col of line. Tabs are kept so the terminal expands them the
// same way on both rows; wide characters take two cells.
func CaretPadding(line string, col int) string {
	if col > len(line) {
		col = len(line)
	}

	var pad strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return pad.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string        `json:"type"`
	Kind     string        `json:"kind,omitempty"`
	Message  string        `json:"message"`
	Position *PositionJSON `json:"position,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename,omitempty"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	var lexErr *lexer.Error
	if stderrors.As(err, &lexErr) {
		errJSON.Kind = lexErr.Kind.String()
		errJSON.Message = lexErr.Message
	}

	var e positioned
	if asPositioned(err, &e) {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Offset:   pos.Offset,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	return errJSON
}

func asPositioned(err error, target *positioned) bool {
	return stderrors.As(err, target)
}
