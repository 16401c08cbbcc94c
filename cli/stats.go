package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slices"

	"github.com/doyt-lang/doyt/lexer"
	"github.com/doyt-lang/doyt/loader"
	"github.com/doyt-lang/doyt/telemetry"
)

var statsLabelStyle = labelStyle.Width(24).PaddingLeft(2)

// StatsCmd tokenizes a file repeatedly and reports counters and timings.
type StatsCmd struct {
	File FileOrStdin `help:"Doyt input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Runs int         `help:"Number of tokenization runs." default:"1"`
}

type kindCount struct {
	Kind  lexer.Kind
	Count int
}

type statsReport struct {
	Stats     lexer.Stats
	Runs      int
	Total     time.Duration
	Identical bool
	Kinds     []kindCount
}

func (r *statsReport) Average() time.Duration {
	if r.Runs == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Runs)
}

// Run executes the stats command.
func (cmd *StatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	if cmd.Runs < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", cmd.Runs)
	}

	runCtx, session := globals.startTelemetry(context.Background(), ctx.Stderr, "stats "+filepath.Base(cmd.File.Filename))
	defer session.Report()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	filename := cmd.File.GetAbsoluteFilename()

	report, err := collectStats(runCtx, globals.Loader(ctx.Stderr), filename, source, cmd.Runs)
	if err != nil {
		var lexErr *lexer.Error
		if !stdErrors.As(err, &lexErr) {
			return err
		}
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(source).Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "tokenization failed")
		session.Report()
		return Failure(err).AsError()
	}

	writeStats(ctx.Stdout, filename, report)

	if !report.Identical {
		printError(ctx.Stderr, fmt.Sprintf("%d runs did not produce identical streams", report.Runs))
		session.Report()
		return NewCommandError(ExitUnstable)
	}
	return nil
}

// collectStats tokenizes source runs times, timing each run under its own
// telemetry timer and comparing every stream to the first one.
func collectStats(ctx context.Context, ldr *loader.Loader, filename string, source []byte, runs int) (*statsReport, error) {
	report := &statsReport{Runs: runs, Identical: true}

	var first *lexer.Stream
	for i := 0; i < runs; i++ {
		timer := telemetry.StartTimer(ctx, fmt.Sprintf("run %d", i+1))
		start := time.Now()
		result, err := ldr.LoadBytes(telemetry.WithTimer(ctx, timer), filename, source)
		report.Total += time.Since(start)
		timer.End()
		if err != nil {
			return nil, err
		}

		if first == nil {
			first = result.Stream
			continue
		}
		if !first.Equal(result.Stream) {
			report.Identical = false
		}
	}

	report.Stats = first.Stats()
	report.Kinds = countKinds(first.Tokens)
	return report, nil
}

// countKinds returns per-kind token counts, most frequent first.
func countKinds(tokens []lexer.Token) []kindCount {
	counts := map[lexer.Kind]int{}
	for _, tok := range tokens {
		counts[tok.Kind]++
	}

	kinds := make([]kindCount, 0, len(counts))
	for kind, n := range counts {
		kinds = append(kinds, kindCount{Kind: kind, Count: n})
	}
	slices.SortFunc(kinds, func(a, b kindCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return int(a.Kind) - int(b.Kind)
	})
	return kinds
}

func writeStats(w io.Writer, filename string, r *statsReport) {
	row := func(label, value string) {
		_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, statsLabelStyle.Render(label), value))
	}

	printInfof(w, "%s", pathStyle.Render(filename))

	stats := r.Stats
	row("characters consumed", fmt.Sprint(stats.Consumed))
	row("tokens produced", fmt.Sprint(stats.Tokens))
	row("arena blocks", fmt.Sprint(len(stats.Arena.Blocks)))
	for i, block := range stats.Arena.Blocks {
		row(fmt.Sprintf("  block %d", i), fmt.Sprintf("%d/%d bytes", block.Used, block.Capacity))
	}
	row("arena bytes", fmt.Sprintf("%d used, %d capacity", stats.Arena.TotalUsed, stats.Arena.TotalCap))
	row("arena allocations", fmt.Sprint(stats.Arena.Allocations))
	row("runs", fmt.Sprint(r.Runs))
	row("average time", r.Average().Round(time.Microsecond).String())

	_, _ = fmt.Fprintln(w)
	for _, kc := range r.Kinds {
		row(kc.Kind.String(), fmt.Sprint(kc.Count))
	}

	if r.Identical {
		_, _ = fmt.Fprintln(w)
		printSuccess(w, fmt.Sprintf("%d run(s) produced identical streams", r.Runs))
	}
}
