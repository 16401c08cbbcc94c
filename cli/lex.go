package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/mattn/go-runewidth"

	"github.com/doyt-lang/doyt/errors"
	"github.com/doyt-lang/doyt/lexer"
	"github.com/doyt-lang/doyt/loader"
	"github.com/doyt-lang/doyt/output"
)

// LexCmd prints the tokens of a doyt source file.
type LexCmd struct {
	File   FileOrStdin `help:"Doyt input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Dump   bool        `help:"Dump tokens as Go values instead of a table."`
	Format string      `help:"Output format." enum:"text,json" default:"text"`
}

// tokenRow is the presentation form of a token shared by every output format.
type tokenRow struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Value  string `json:"value,omitempty"`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx, session := globals.startTelemetry(context.Background(), ctx.Stderr, "lex "+filepath.Base(cmd.File.Filename))
	defer session.Report()

	result, err := cmd.File.Load(runCtx, globals.Loader(ctx.Stderr))
	if result == nil {
		return err
	}

	rows := tokenRows(result)

	switch {
	case cmd.Format == "json":
		if jerr := writeJSON(ctx.Stdout, rows, err); jerr != nil {
			return jerr
		}
	case cmd.Dump:
		repr.New(ctx.Stdout).Println(rows)
	default:
		writeTable(ctx.Stdout, rows, result.Stream.Tokens)
	}

	if err != nil {
		renderer := NewErrorRenderer(result.Source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d tokens produced", len(rows)))
		session.Report()
		return Failure(err).AsError()
	}

	return nil
}

func tokenRows(result *loader.Result) []tokenRow {
	stream := result.Stream
	rows := make([]tokenRow, 0, stream.Len())
	for _, tok := range stream.Tokens {
		rows = append(rows, tokenRow{
			Kind:   tok.Kind.String(),
			Line:   tok.Line,
			Column: tok.Column,
			Start:  tok.Start,
			End:    tok.End,
			Value:  tokenValue(tok, stream),
		})
	}
	return rows
}

// tokenValue is the payload for literals and identifiers, and nothing for
// kinds whose name already says everything.
func tokenValue(tok lexer.Token, stream *lexer.Stream) string {
	switch {
	case tok.Kind == lexer.STRING:
		return strconv.Quote(stream.Text(tok))
	case tok.Kind == lexer.IDENT, tok.Kind.IsLiteral():
		return tok.Format(stream.Arena)
	}
	return ""
}

func writeJSON(w io.Writer, rows []tokenRow, lexErr error) error {
	doc := struct {
		Tokens []tokenRow        `json:"tokens"`
		Error  *errors.ErrorJSON `json:"error,omitempty"`
	}{Tokens: rows}

	if lexErr != nil {
		converted := errors.NewJSONFormatter().FormatAllToSlice([]error{lexErr})
		doc.Error = &converted[0]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeTable prints one "KIND  line:col  value" row per token with the
// first two columns padded to a common display width.
func writeTable(w io.Writer, rows []tokenRow, tokens []lexer.Token) {
	styles := output.NewStyles(w)

	kindWidth, posWidth := 0, 0
	positions := make([]string, len(rows))
	for i, row := range rows {
		positions[i] = fmt.Sprintf("%d:%d", row.Line, row.Column)
		kindWidth = max(kindWidth, runewidth.StringWidth(row.Kind))
		posWidth = max(posWidth, runewidth.StringWidth(positions[i]))
	}

	for i, row := range rows {
		kind := runewidth.FillRight(row.Kind, kindWidth)
		line := fmt.Sprintf("%s  %s  %s",
			styleKind(styles, tokens[i].Kind, kind),
			styles.Dim(runewidth.FillRight(positions[i], posWidth)),
			row.Value)
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// styleKind colours a padded kind column by token class.
func styleKind(styles *output.Styles, kind lexer.Kind, padded string) string {
	switch {
	case kind == lexer.IDENT:
		return styles.Identifier(padded)
	case kind.IsLiteral():
		return styles.Literal(padded)
	case kind.IsKeyword():
		return styles.Keyword(padded)
	case kind.IsPunct():
		return styles.Punctuation(padded)
	}
	return styles.Dim(padded)
}
