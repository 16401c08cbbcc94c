package cli

import (
	"bytes"
	"context"
	stdErrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/doyt-lang/doyt/lexer"
	"github.com/doyt-lang/doyt/loader"
)

// syncBuffer is a bytes.Buffer safe for one writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, b.String())
}

func TestWatchCmdReTokenizesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.doyt")
	assert.NoError(t, os.WriteFile(path, []byte("a b"), 0600))

	var stdout, stderr syncBuffer
	cmd := &WatchCmd{File: path, Debounce: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.watch(ctx, &stdout, &stderr, loader.New()) }()

	waitForOutput(t, &stdout, "main.doyt: 3 tokens from 3 bytes")

	assert.NoError(t, os.WriteFile(path, []byte("a b c d"), 0600))
	waitForOutput(t, &stdout, "main.doyt: 5 tokens from 7 bytes")

	assert.NoError(t, os.WriteFile(path, []byte("a @"), 0600))
	waitForOutput(t, &stderr, "main.doyt: 1 tokens produced")

	cancel()
	err := waitForStop(t, done)
	assert.Equal(t, ExitLexError, exitCode(t, err))

	var lexErr *lexer.Error
	assert.True(t, stdErrors.As(err, &lexErr))
	assert.Equal(t, lexer.UnmatchedCharacter, lexErr.Kind)
}

func waitForStop(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
		return nil
	}
}

func TestWatchCmdExitStatusFollowsLastPass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.doyt")
	assert.NoError(t, os.WriteFile(path, []byte("x `"), 0600))

	var stdout, stderr syncBuffer
	cmd := &WatchCmd{File: path, Debounce: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.watch(ctx, &stdout, &stderr, loader.New()) }()

	waitForOutput(t, &stderr, "main.doyt: 1 tokens produced")

	assert.NoError(t, os.WriteFile(path, []byte("x;"), 0600))
	waitForOutput(t, &stdout, "main.doyt: 3 tokens from 2 bytes")

	cancel()
	assert.NoError(t, waitForStop(t, done))
}

func TestWatchCmdReportsLostFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.doyt")
	assert.NoError(t, os.WriteFile(path, []byte("a"), 0600))

	var stdout, stderr syncBuffer
	cmd := &WatchCmd{File: path, Debounce: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.watch(ctx, &stdout, &stderr, loader.New()) }()

	waitForOutput(t, &stdout, "main.doyt: 2 tokens from 1 bytes")

	assert.NoError(t, os.Remove(path))
	waitForOutput(t, &stderr, "failed to watch "+path)

	cancel()
	assert.Equal(t, ExitLexError, exitCode(t, waitForStop(t, done)))
}

func TestWatchCmdMissingFile(t *testing.T) {
	cmd := &WatchCmd{File: filepath.Join(t.TempDir(), "gone.doyt")}

	err := cmd.watch(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, loader.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestWatchCmdLexOnce(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.doyt")
	bad := filepath.Join(dir, "bad.doyt")
	assert.NoError(t, os.WriteFile(good, []byte("x;"), 0600))
	assert.NoError(t, os.WriteFile(bad, []byte("x `"), 0600))

	cmd := &WatchCmd{}
	var stdout, stderr bytes.Buffer

	result := cmd.lexOnce(context.Background(), &stdout, &stderr, loader.New(), good)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, stdout.String(), "good.doyt: 3 tokens from 2 bytes")

	result = cmd.lexOnce(context.Background(), &stdout, &stderr, loader.New(), bad)
	assert.Equal(t, 1, result.ExitCode)
	assert.Error(t, result.Err)
	assert.Contains(t, stderr.String(), "unmatched character ` at offset 2")

	result = cmd.lexOnce(context.Background(), &stdout, &stderr, loader.New(), filepath.Join(dir, "none.doyt"))
	assert.Equal(t, 1, result.ExitCode)
}
