package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/grass"
)

// Recorder is a grass.Runner that records commands instead of running them.
//
// Outputs holds canned standard output per module name. Failures makes a
// module fail with an ExternalToolError carrying the given diagnostic.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Recorder struct {
	mu       sync.Mutex
	commands []grass.Command

	Outputs  map[string]string
	Failures map[string]string
}

var _ grass.Runner = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Outputs:  make(map[string]string),
		Failures: make(map[string]string),
	}
}

// Run implements grass.Runner.
func (r *Recorder) Run(ctx context.Context, cmd grass.Command) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, cmd)

	if err := ctx.Err(); err != nil {
		return nil, gis.NewToolError(cmd.Module, err)
	}
	if msg, ok := r.Failures[cmd.Module]; ok {
		return nil, &gis.ExternalToolError{
			Tool:     cmd.Module,
			Args:     cmd.Args(),
			ExitCode: 1,
			Stderr:   msg,
			Err:      fmt.Errorf("exit status 1"),
		}
	}
	return []byte(r.Outputs[cmd.Module]), nil
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []grass.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grass.Command(nil), r.commands...)
}

// Modules returns the recorded module names in call order.
func (r *Recorder) Modules() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	modules := make([]string, len(r.commands))
	for i, c := range r.commands {
		modules[i] = c.Module
	}
	return modules
}

// Lines returns every recorded command rendered as a command line.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.commands))
	for i, c := range r.commands {
		lines[i] = c.String()
	}
	return lines
}

// Find returns the first recorded command of module.
func (r *Recorder) Find(module string) (grass.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.commands {
		if c.Module == module {
			return c, true
		}
	}
	return grass.Command{}, false
}
