package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/doyt-lang/doyt/loader"
)

// WatchCmd re-tokenizes a file every time it changes.
type WatchCmd struct {
	File     string        `help:"Doyt source file to watch." arg:"" type:"existingfile"`
	Debounce time.Duration `help:"Quiet period after a change before re-tokenizing." default:"100ms"`
}

// Run executes the watch command until interrupted.
func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCtx, session := globals.startTelemetry(runCtx, ctx.Stderr, "watch "+filepath.Base(cmd.File))
	defer session.Report()

	return cmd.watch(runCtx, ctx.Stdout, ctx.Stderr, globals.Loader(ctx.Stderr))
}

// watch tokenizes the file once, then again after every burst of changes,
// until ctx is cancelled. The returned error reflects the last pass, so an
// interrupted watch over a broken file exits non-zero.
func (cmd *WatchCmd) watch(ctx context.Context, stdout, stderr io.Writer, ldr *loader.Loader) error {
	filename, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	printInfof(stdout, "watching %s", pathStyle.Render(filename))
	last := cmd.lexOnce(ctx, stdout, stderr, ldr, filename)

	// Editors often write files in multiple steps.
	debounce := cmd.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	reload := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return last.AsError()

		case event, ok := <-watcher.Events:
			if !ok {
				return last.AsError()
			}

			// Remove/Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			last = cmd.lexOnce(ctx, stdout, stderr, ldr, filename)

			// Re-add to pick up a file that was replaced rather than written.
			if err := watcher.Add(filename); err != nil {
				printError(stderr, fmt.Sprintf("failed to watch %s: %v", filename, err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return last.AsError()
			}
			printError(stderr, fmt.Sprintf("file watcher error: %v", err))
		}
	}
}

// lexOnce tokenizes filename and prints a one-line summary, or the rendered
// error with the number of tokens produced before it.
func (cmd *WatchCmd) lexOnce(ctx context.Context, stdout, stderr io.Writer, ldr *loader.Loader, filename string) CommandResult {
	result, err := ldr.Load(ctx, filename)
	if result == nil {
		printError(stderr, err.Error())
		return Failure(err)
	}

	if err != nil {
		_, _ = fmt.Fprintln(stderr, NewErrorRenderer(result.Source).Render(err))
		printError(stderr, fmt.Sprintf("%s: %d tokens produced", filepath.Base(filename), result.Stream.Len()))
		return Failure(err)
	}

	stats := result.Stream.Stats()
	printSuccess(stdout, fmt.Sprintf("%s: %d tokens from %d bytes",
		filepath.Base(filename), stats.Tokens, stats.Consumed))
	return Success()
}
