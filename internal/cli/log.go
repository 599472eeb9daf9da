// Package cli implements the umlflow command-line interface.
//
// Commands read activity diagrams (JSON or YAML), run them through a cached
// [pipeline.Runner] and write layouts or Graphviz renderings.
//
// # Commands
//
//   - layout: compute layouts for one or more diagrams
//   - render: draw a diagram as DOT, SVG, PNG or PDF
//   - inspect: browse layers and positions interactively
//   - serve: run the HTTP API
//   - cache: manage the local layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried in the command context.
//
// [pipeline.Runner]: github.com/matzehuels/umlflow/pkg/pipeline.Runner
package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped ("15:04:05.00") lines at or above level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tallies a batch of layouts. Workers call record concurrently;
// done is called once after they finish.
type progress struct {
	logger    *log.Logger
	start     time.Time
	cached    atomic.Int64
	fallbacks atomic.Int64
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// record counts one finished diagram.
func (p *progress) record(hit, fallback bool) {
	if hit {
		p.cached.Add(1)
	}
	if fallback {
		p.fallbacks.Add(1)
	}
}

// done logs msg with the elapsed time and the batch tallies, e.g.
//
//	Laid out 3 diagrams (1.234s) cached=2 fallbacks=0
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, elapsed), "cached", p.cached.Load(), "fallbacks", p.fallbacks.Load())
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger,
// e.g. for commands run without the root's pre-run hook.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
