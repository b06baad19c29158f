package tinsel

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/evaluator"
)

// Tracer re-exports the evaluator's observer interface.
type Tracer = evaluator.Tracer

// writerTracer prints each trace line to a writer with the DEBUG
// prefix, matching what the CLI shows on stderr under -d.
type writerTracer struct {
	w io.Writer
}

func NewWriterTracer(w io.Writer) Tracer {
	return &writerTracer{w: w}
}

func (t *writerTracer) Trace(line string) {
	fmt.Fprintf(t.w, "DEBUG: %s\n", line)
}

// BufferedTracer captures trace lines in memory. Safe for concurrent
// use; tests read the lines back after the run.
type BufferedTracer struct {
	mu    sync.Mutex
	lines []string
}

func NewBufferedTracer() *BufferedTracer {
	return &BufferedTracer{}
}

func (t *BufferedTracer) Trace(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
}

// Lines returns a copy of the captured trace.
func (t *BufferedTracer) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

func (t *BufferedTracer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

func (t *BufferedTracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = nil
}

// NullTracer discards everything.
type NullTracer struct{}

func (NullTracer) Trace(string) {}
