package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/bpserial/pkg/observability"
	"github.com/matzehuels/bpserial/pkg/schema"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates on w while the schema cache answers a request. It is
// installed as the schema hooks for the duration, so its line follows what
// the cache is doing: loading, then generating on a miss. Every event is
// forwarded to next.
type Spinner struct {
	w    io.Writer
	next observability.SchemaHooks

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
	source  string
}

// newSpinner creates a spinner that stops when ctx is cancelled. A nil next
// forwards nowhere.
func newSpinner(ctx context.Context, w io.Writer, next observability.SchemaHooks) *Spinner {
	if next == nil {
		next = observability.NoopSchemaHooks{}
	}
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		next:    next,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: "Loading node schema...",
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(s.message)+4)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

func (s *Spinner) setMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// Stop stops the animation and clears the line. It may be called more than
// once.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// StopWithError stops the spinner and prints message as an error.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError(s.w, "%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
		return s.ctx.Err() != nil
	}
}

// Source returns where the schema came from, as reported by the cache, or
// "" when nothing was served.
func (s *Spinner) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Spinner) OnGenerateStart(ctx context.Context, engineVersion string) {
	s.setMessage(fmt.Sprintf("Generating node schema for engine %s...", engineVersion))
	s.next.OnGenerateStart(ctx, engineVersion)
}

func (s *Spinner) OnGenerateComplete(ctx context.Context, engineVersion string, nodeCount int, d time.Duration, err error) {
	if err == nil {
		s.setMessage(fmt.Sprintf("Saving schema for %d nodes...", nodeCount))
	}
	s.next.OnGenerateComplete(ctx, engineVersion, nodeCount, d, err)
}

func (s *Spinner) OnSchemaServed(ctx context.Context, source string) {
	s.mu.Lock()
	s.source = source
	s.mu.Unlock()
	s.next.OnSchemaServed(ctx, source)
}

// sourceLabel describes a schema source for the summary line.
func sourceLabel(source string) string {
	switch source {
	case schema.SourceMemory:
		return "from memory"
	case schema.SourceStore:
		return "from the schema cache"
	case schema.SourceGenerated:
		return "freshly generated"
	}
	return "from an unknown source"
}

var _ observability.SchemaHooks = (*Spinner)(nil)
