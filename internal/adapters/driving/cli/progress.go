package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure ConsoleProgress implements the interface.
var _ driven.ProgressSink = (*ConsoleProgress)(nil)

// ConsoleProgress renders the host progress bar on the terminal. A
// training task reports a single coarse step, so the display is a
// step counter rather than a percentage.
type ConsoleProgress struct {
	mu    sync.Mutex
	out   io.Writer
	steps int
}

// NewConsoleProgress creates a console progress sink writing to out.
func NewConsoleProgress(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: out}
}

// EmitStep prints one completed progress step.
func (p *ConsoleProgress) EmitStep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps++
	fmt.Fprintf(p.out, "Progress: step %d complete\n", p.steps)
}

// Done prints the completion signal.
func (p *ConsoleProgress) Done(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		fmt.Fprintf(p.out, "Run failed: %v\n", err)
		return
	}
	fmt.Fprintln(p.out, "Run complete")
}

// Steps returns the number of steps emitted so far.
func (p *ConsoleProgress) Steps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.steps
}
