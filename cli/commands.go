package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/doyt-lang/doyt/lexer"
	"github.com/doyt-lang/doyt/loader"
	"github.com/doyt-lang/doyt/output"
	"github.com/doyt-lang/doyt/telemetry"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry  bool  `help:"Show timing telemetry for operations." env:"DOYT_TELEMETRY"`
	Verbose    bool  `help:"Narrate every lexer step on stderr." short:"v" env:"DOYT_VERBOSE"`
	BlockSize  int   `help:"Base size in bytes of each arena block." default:"4096" env:"DOYT_BLOCK_SIZE"`
	RawStrings bool  `help:"Copy string literals verbatim instead of decoding escapes."`
	MaxSize    int64 `help:"Reject sources larger than this many bytes (0 for no limit)." default:"0"`
}

type Commands struct {
	Globals

	Lex   LexCmd   `cmd:"" help:"Print the tokens of a doyt source file."`
	Stats StatsCmd `cmd:"" help:"Tokenize a file repeatedly and report counters and timings."`
	Watch WatchCmd `cmd:"" help:"Re-tokenize a file every time it changes."`
}

// Logger returns the narration logger for --verbose, or nil.
func (g *Globals) Logger(w io.Writer) logrus.FieldLogger {
	if !g.Verbose {
		return nil
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      isTerminal(w),
	})
	return log
}

// LexerOptions translates the global flags into lexer options.
func (g *Globals) LexerOptions(logOutput io.Writer) []lexer.Option {
	opts := []lexer.Option{lexer.WithBlockSize(g.BlockSize)}
	if g.RawStrings {
		opts = append(opts, lexer.WithRawStrings())
	}
	if log := g.Logger(logOutput); log != nil {
		opts = append(opts, lexer.WithLogger(log))
	}
	return opts
}

// Loader builds a loader configured from the global flags.
func (g *Globals) Loader(logOutput io.Writer) *loader.Loader {
	return loader.New(
		loader.WithMaxSize(g.MaxSize),
		loader.WithLexerOptions(g.LexerOptions(logOutput)...),
	)
}

// telemetrySession owns the collector and root timer of one command run.
// Report is safe to call more than once; only the first call prints.
type telemetrySession struct {
	collector telemetry.Collector
	root      telemetry.Timer
	w         io.Writer
	once      sync.Once
}

// startTelemetry returns a context carrying a collector and a root timer
// named name when --telemetry is set. Otherwise ctx is returned unchanged.
func (g *Globals) startTelemetry(ctx context.Context, w io.Writer, name string) (context.Context, *telemetrySession) {
	s := &telemetrySession{w: w}
	if !g.Telemetry {
		return ctx, s
	}

	collector := telemetry.NewTimingCollector()
	s.collector = collector
	s.root = collector.Start(name)

	ctx = telemetry.WithCollector(ctx, collector)
	ctx = telemetry.WithTimer(ctx, s.root)
	return ctx, s
}

func (s *telemetrySession) Report() {
	s.once.Do(func() {
		if s.collector == nil {
			return
		}
		s.root.End()
		_, _ = fmt.Fprintln(s.w)
		s.collector.Report(s.w, output.NewStyles(s.w))
	})
}
