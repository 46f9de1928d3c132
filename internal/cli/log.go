// Package cli implements the flowlayout command-line interface.
//
// This package provides commands for laying out diagram snapshots, checking
// them, inspecting the graphviz request, and serving layouts over HTTP. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Position the nodes of a diagram.json snapshot
//   - validate: Check ids, parents and edge endpoints of a snapshot
//   - dot: Print the graphviz request built for a snapshot
//   - serve: Start the HTTP layout service
//   - config: Print the effective configuration
//   - cache: Manage the layout result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so commands and the server share one logger.
//
// # Example
//
//	import "github.com/matzehuels/flowlayout/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a leveled logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one operation and logs its duration when done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with a "took" field, e.g. `Laid out 42 nodes took=1.234s`.
func (p *progress) done(msg string) {
	p.logger.Info(msg, "took", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for commands and the server.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
