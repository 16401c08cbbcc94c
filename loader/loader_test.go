package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/doyt-lang/doyt/lexer"
	"github.com/doyt-lang/doyt/telemetry"
)

func TestLoadSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.doyt")
	err := os.WriteFile(mainFile, []byte("func main() {\n  return 1i\n}\n"), 0o644)
	assert.NoError(t, err)

	absMainFile, err := filepath.Abs(mainFile)
	assert.NoError(t, err)

	result, err := New().Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, absMainFile, result.Filename)
	assert.True(t, result.Stream.Complete())
	assert.Equal(t, len(result.Source), result.Stream.Consumed)

	kinds := make([]lexer.Kind, 0, result.Stream.Len())
	for _, tok := range result.Stream.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []lexer.Kind{
		lexer.FUNC, lexer.IDENT, lexer.LPAREN, lexer.RPAREN, lexer.LBRACE,
		lexer.RETURN, lexer.INT, lexer.RBRACE, lexer.EOF,
	}, kinds)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.doyt"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadReturnsPartialStreamOnLexError(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "broken.doyt")
	assert.NoError(t, os.WriteFile(mainFile, []byte("a b 'never closed"), 0o644))

	result, err := New().Load(context.Background(), mainFile)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, lexer.ErrUnterminatedConstruct))

	var lexErr *lexer.Error
	assert.True(t, errors.As(err, &lexErr))
	assert.True(t, strings.HasSuffix(lexErr.Pos.Filename, "broken.doyt"))

	assert.True(t, result != nil)
	assert.Equal(t, 2, result.Stream.Len())
	assert.False(t, result.Stream.Complete())
}

func TestLoadBytesStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x")...)

	result, err := New().LoadBytes(context.Background(), "<stdin>", data)
	assert.NoError(t, err)
	assert.Equal(t, "x", string(result.Source))
	assert.Equal(t, 2, result.Stream.Len())
	assert.Equal(t, "x", result.Stream.Text(result.Stream.Tokens[0]))
}

func TestMaxSize(t *testing.T) {
	ldr := New(WithMaxSize(4))

	_, err := ldr.LoadBytes(context.Background(), "<stdin>", []byte("12345"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "larger than the 4 byte limit")

	mainFile := filepath.Join(t.TempDir(), "big.doyt")
	assert.NoError(t, os.WriteFile(mainFile, bytes.Repeat([]byte("a"), 10), 0o644))
	_, err = ldr.Load(context.Background(), mainFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "larger than the 4 byte limit")
}

func TestWithLexerOptions(t *testing.T) {
	ldr := New(WithLexerOptions(lexer.WithRawStrings()))

	result, err := ldr.LoadBytes(context.Background(), "raw", []byte(`'a\nb'`))
	assert.NoError(t, err)
	assert.Equal(t, `a\nb`, result.Stream.Text(result.Stream.Tokens[0]))
}

func TestLoadRecordsTelemetry(t *testing.T) {
	mainFile := filepath.Join(t.TempDir(), "timed.doyt")
	assert.NoError(t, os.WriteFile(mainFile, []byte("x"), 0o644))

	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	_, err := New().Load(ctx, mainFile)
	assert.NoError(t, err)

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Contains(t, buf.String(), "load timed.doyt")
	assert.Contains(t, buf.String(), "lexer.scan")
}
