// Package loader reads doyt source files fully into memory and tokenizes them.
//
// Tokenization never performs I/O mid-scan, so the loader is the one place
// where files are read. It also normalizes the few byte-level details the
// lexer does not deal with, such as a leading UTF-8 byte order mark.
//
// Example usage:
//
//	ldr := loader.New(loader.WithLexerOptions(lexer.WithRawStrings()))
//	result, err := ldr.Load(ctx, "main.doyt")
package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doyt-lang/doyt/lexer"
	"github.com/doyt-lang/doyt/telemetry"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader handles loading and tokenizing of doyt files.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithMaxSize(1 << 20))
type Loader struct {
	// MaxSize rejects sources larger than this many bytes. Zero means no limit.
	MaxSize int64

	lexerOpts []lexer.Option
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithMaxSize limits the size of sources the loader accepts.
func WithMaxSize(n int64) Option {
	return func(l *Loader) {
		l.MaxSize = n
	}
}

// WithLexerOptions passes opts to every lexer the loader creates.
func WithLexerOptions(opts ...lexer.Option) Option {
	return func(l *Loader) {
		l.lexerOpts = append(l.lexerOpts, opts...)
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is a loaded and tokenized source.
type Result struct {
	Filename string        // Absolute path, or a pseudo name such as "<stdin>"
	Source   []byte        // Source as handed to the lexer
	Stream   *lexer.Stream // Tokens produced; partial when err != nil
}

// Load reads filename and tokenizes it. Lexer errors are returned together
// with the partial result so callers can report the tokens produced so far.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("load %s", filepath.Base(absPath)))
	data, err := l.readFile(absPath)
	timer.End()
	if err != nil {
		return nil, err
	}

	return l.LoadBytes(ctx, absPath, data)
}

// LoadBytes tokenizes data that is already in memory.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	if l.MaxSize > 0 && int64(len(data)) > l.MaxSize {
		return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", filename, len(data), l.MaxSize)
	}

	source := bytes.TrimPrefix(data, utf8BOM)
	stream, err := lexer.Tokenize(ctx, filename, source, l.lexerOpts...)

	return &Result{
		Filename: filename,
		Source:   source,
		Stream:   stream,
	}, err
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if l.MaxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if info.Size() > l.MaxSize {
			return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", path, info.Size(), l.MaxSize)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
