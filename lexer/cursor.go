package lexer

// EOFChar is returned by Cursor lookahead past the end of input.
const EOFChar byte = 0

// Cursor reads a source buffer one byte at a time, tracking offset, line and
// column. It never moves backwards.
type Cursor struct {
	source []byte
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
}

// NewCursor creates a cursor positioned at the first byte of source.
func NewCursor(source []byte) *Cursor {
	return &Cursor{
		source: source,
		line:   1,
		column: 1,
	}
}

// Peek returns the byte n positions past the current one without consuming
// anything. Peek(0) is the current byte. Past the end it returns EOFChar.
func (c *Cursor) Peek(n int) byte {
	i := c.pos + n
	if i < 0 || i >= len(c.source) {
		return EOFChar
	}
	return c.source[i]
}

// Advance consumes the current byte and returns the byte that is current
// afterwards. Consuming '\n' moves to the next line.
func (c *Cursor) Advance() byte {
	if c.pos >= len(c.source) {
		return EOFChar
	}
	if c.source[c.pos] == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}
	c.pos++
	return c.Peek(0)
}

// AtEnd reports whether the whole source has been consumed.
// Unlike comparing Peek(0) with EOFChar this is not fooled by NUL bytes.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.source)
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Line returns the current 1-indexed line.
func (c *Cursor) Line() int { return c.line }

// Column returns the current 1-indexed column.
func (c *Cursor) Column() int { return c.column }

// Len returns the source length in bytes.
func (c *Cursor) Len() int { return len(c.source) }

// Slice returns the source bytes in [start, end).
func (c *Cursor) Slice(start, end int) []byte {
	return c.source[start:end]
}

// span starts a token span at the current position.
func (c *Cursor) span() Span {
	return Span{Start: c.pos, End: c.pos, Line: c.line, Column: c.column}
}
