// Package cli implements the bpserial command-line interface.
//
// The commands export the node catalog and the master schema, validate
// documents against the class registry, round-trip and merge documents,
// edit single graphs, summarise the difference between two documents and
// render a graph as DOT or SVG. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate-node-catalog: Write a short inventory of every node class
//   - generate-master-schema: Write the full node schema
//   - validate-file: Check a document and print its issues
//   - roundtrip, merge, diff: Work with exported documents
//   - graph: List, add, remove and connect the nodes of one graph
//   - render-graph: Draw one graph of a document
//   - schema-cache: Inspect or clear the cached schema
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so schema and cache hooks can report
// through the same logger.
//
// # Example
//
//	import "github.com/matzehuels/bpserial/internal/cli"
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

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Generated schema for 61 nodes (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports schema and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnGenerateStart(_ context.Context, engineVersion string) {
	h.logger.Debug("generating schema", "engine", engineVersion)
}

func (h *logHooks) OnGenerateComplete(_ context.Context, engineVersion string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("schema generation failed", "engine", engineVersion, "err", err)
		return
	}
	h.logger.Debug("schema generated", "engine", engineVersion, "nodes", nodeCount, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnSchemaServed(_ context.Context, source string) {
	h.logger.Debug("schema served", "source", source)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
