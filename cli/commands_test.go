package cli

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/doyt-lang/doyt/lexer"
)

// runCLI parses args against the full command tree and runs the selected
// command with captured output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var cli Commands
	var stdout, stderr bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("doyt"),
		kong.Writers(&stdout, &stderr),
		kong.Bind(&cli.Globals),
		kong.Exit(func(int) {}),
	)
	assert.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return stdout.String(), stderr.String(), err
	}
	err = ctx.Run()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.doyt")
	assert.NoError(t, os.WriteFile(path, []byte(source), 0600))
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var cmdErr *CommandError
	assert.True(t, stdErrors.As(err, &cmdErr), "expected a CommandError, got %v", err)
	return cmdErr.ExitCode()
}

func TestLexCmd(t *testing.T) {
	t.Run("Table", func(t *testing.T) {
		file := writeSource(t, "x = 1;")

		stdout, _, err := runCLI(t, "lex", file)
		assert.NoError(t, err)

		expected := "IDENT  1:1  x\n" +
			"=      1:3\n" +
			"INT    1:5  1\n" +
			";      1:6\n" +
			"EOF    1:7\n"
		assert.Equal(t, expected, stdout)
	})

	t.Run("StringValuesAreQuoted", func(t *testing.T) {
		file := writeSource(t, `"a\tb"`)

		stdout, _, err := runCLI(t, "lex", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, `STRING  1:1  "a\tb"`)
	})

	t.Run("RawStrings", func(t *testing.T) {
		file := writeSource(t, `"a\tb"`)

		stdout, _, err := runCLI(t, "--raw-strings", "lex", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, `STRING  1:1  "a\\tb"`)
	})

	t.Run("ErrorReportsPartialCount", func(t *testing.T) {
		file := writeSource(t, "a b @")

		stdout, stderr, err := runCLI(t, "lex", file)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stdout, "IDENT  1:3  b")
		assert.Contains(t, stderr, "unmatched character @ at offset 4")
		assert.Contains(t, stderr, "   a b @\n")
		assert.Contains(t, stderr, "2 tokens produced")
	})

	t.Run("JSON", func(t *testing.T) {
		file := writeSource(t, "if x >= 2.5d")

		stdout, _, err := runCLI(t, "lex", "--format=json", file)
		assert.NoError(t, err)

		var doc struct {
			Tokens []tokenRow       `json:"tokens"`
			Error  *json.RawMessage `json:"error"`
		}
		assert.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.True(t, doc.Error == nil)

		kinds := []string{}
		for _, row := range doc.Tokens {
			kinds = append(kinds, row.Kind)
		}
		assert.Equal(t, []string{"if", "IDENT", ">=", "DOUBLE", "EOF"}, kinds)
		assert.Equal(t, "2.5", doc.Tokens[3].Value)
		assert.Equal(t, 5, doc.Tokens[2].Start)
		assert.Equal(t, 7, doc.Tokens[2].End)
	})

	t.Run("JSONWithError", func(t *testing.T) {
		file := writeSource(t, "x 1.")

		stdout, _, err := runCLI(t, "lex", "--format=json", file)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stdout, `"kind": "malformed literal"`)
		assert.Contains(t, stdout, `"message": "malformed number \"1.\""`)
	})

	t.Run("Dump", func(t *testing.T) {
		file := writeSource(t, "name")

		stdout, _, err := runCLI(t, "lex", "--dump", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, `Kind: "IDENT"`)
		assert.Contains(t, stdout, `Value: "name"`)
	})

	t.Run("Verbose", func(t *testing.T) {
		file := writeSource(t, "a")

		_, stderr, err := runCLI(t, "--verbose", "lex", file)
		assert.NoError(t, err)
		assert.Contains(t, stderr, "constructing token")
		assert.Contains(t, stderr, "emitted token")
	})

	t.Run("Telemetry", func(t *testing.T) {
		file := writeSource(t, "a")

		_, stderr, err := runCLI(t, "--telemetry", "lex", file)
		assert.NoError(t, err)
		assert.Contains(t, stderr, "lex main.doyt")
		assert.Contains(t, stderr, "lexer.scan")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := runCLI(t, "lex", filepath.Join(t.TempDir(), "nope.doyt"))
		assert.Error(t, err)
	})

	t.Run("MaxSize", func(t *testing.T) {
		file := writeSource(t, "abcdef")

		_, _, err := runCLI(t, "--max-size=3", "lex", file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "larger than the 3 byte limit")
	})
}

func TestStatsCmd(t *testing.T) {
	t.Run("Report", func(t *testing.T) {
		file := writeSource(t, "alpha beta alpha 1")

		stdout, _, err := runCLI(t, "stats", "--runs=3", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "characters consumed   18")
		assert.Contains(t, stdout, "tokens produced       5")
		assert.Contains(t, stdout, "arena bytes           9 used, 4096 capacity")
		assert.Contains(t, stdout, "runs                  3")
		assert.Contains(t, stdout, "average time")
		assert.Contains(t, stdout, "IDENT                 3")
		assert.Contains(t, stdout, "3 run(s) produced identical streams")
	})

	t.Run("SmallBlocks", func(t *testing.T) {
		file := writeSource(t, "first_name second_name third_name")

		stdout, _, err := runCLI(t, "--block-size=16", "stats", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "arena blocks          3")
		assert.Contains(t, stdout, "block 2")
	})

	t.Run("RejectsZeroRuns", func(t *testing.T) {
		file := writeSource(t, "a")

		_, _, err := runCLI(t, "stats", "--runs=0", file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "--runs must be at least 1")
	})

	t.Run("LexError", func(t *testing.T) {
		file := writeSource(t, "'open")

		_, stderr, err := runCLI(t, "stats", file)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "unterminated string literal")
		assert.Contains(t, stderr, "tokenization failed")
	})
}

func TestCountKinds(t *testing.T) {
	tokens := []lexer.Token{
		lexer.NewSymbol(lexer.SEMI, lexer.Span{}),
		lexer.NewInt(1, lexer.Span{}),
		lexer.NewSymbol(lexer.SEMI, lexer.Span{}),
		lexer.NewInt(2, lexer.Span{}),
		lexer.NewSymbol(lexer.EOF, lexer.Span{}),
		lexer.NewSymbol(lexer.SEMI, lexer.Span{}),
	}

	assert.Equal(t, []kindCount{
		{Kind: lexer.SEMI, Count: 3},
		{Kind: lexer.INT, Count: 2},
		{Kind: lexer.EOF, Count: 1},
	}, countKinds(tokens))
}
