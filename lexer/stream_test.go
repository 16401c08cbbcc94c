package lexer

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStreamComplete(t *testing.T) {
	ok, err := Tokenize(context.Background(), "", []byte("a + b"))
	assert.NoError(t, err)
	assert.True(t, ok.Complete())
	assert.Equal(t, 4, ok.Len())

	partial, err := Tokenize(context.Background(), "", []byte("a $"))
	assert.Error(t, err)
	assert.False(t, partial.Complete())
	assert.Equal(t, 1, partial.Len())
}

func TestStreamText(t *testing.T) {
	stream, err := Tokenize(context.Background(), "", []byte(`name "str" 5`))
	assert.NoError(t, err)

	assert.Equal(t, "name", stream.Text(stream.Tokens[0]))
	assert.Equal(t, "str", stream.Text(stream.Tokens[1]))
	assert.Equal(t, "", stream.Text(stream.Tokens[2]))
}

func TestStreamEqualAcrossArenas(t *testing.T) {
	source := []byte("func f(x) { return x * 2.5f + \"s\"; }")

	a, err := Tokenize(context.Background(), "", source)
	assert.NoError(t, err)
	b, err := Tokenize(context.Background(), "", source, WithBlockSize(8))
	assert.NoError(t, err)

	assert.True(t, a.Arena != b.Arena)
	assert.True(t, a.Equal(b))
}

func TestStreamEqualDetectsDifferences(t *testing.T) {
	base, err := Tokenize(context.Background(), "", []byte(`x = "a"`))
	assert.NoError(t, err)

	for _, source := range []string{`y = "a"`, `x = "b"`, `x == "a"`, `x  = "a"`} {
		other, err := Tokenize(context.Background(), "", []byte(source))
		assert.NoError(t, err)
		assert.False(t, base.Equal(other), "%q", source)
	}
}

func TestStreamStats(t *testing.T) {
	stream, err := Tokenize(context.Background(), "", []byte("abc abc 1"))
	assert.NoError(t, err)

	stats := stream.Stats()
	assert.Equal(t, 9, stats.Consumed)
	assert.Equal(t, 4, stats.Tokens)
	assert.Equal(t, 3, stats.Arena.TotalUsed)
	assert.Equal(t, 1, stats.Arena.Allocations)
}
