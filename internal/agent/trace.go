package agent

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Trace observes a run as it executes. The engine reports every attempted
// action and every recorded failure, in attempt order. Implementations must
// be safe for use from a single run at a time; the engine never calls a
// Trace concurrently within one run.
type Trace interface {
	Action(msg string)
	Failure(msg string)
}

type nopTrace struct{}

func (nopTrace) Action(string)  {}
func (nopTrace) Failure(string) {}

// NopTrace returns a Trace that discards everything. It is the default when
// no trace is injected.
func NopTrace() Trace {
	return nopTrace{}
}

// ConsoleTrace writes a colored line per action to a writer (stderr by
// default), keeping stdout clean for the query response.
type ConsoleTrace struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleTrace(w io.Writer) *ConsoleTrace {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleTrace{w: w}
}

func (t *ConsoleTrace) Action(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s %s\n", color.CyanString("->"), msg)
}

func (t *ConsoleTrace) Failure(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s %s\n", color.RedString("!!"), msg)
}
