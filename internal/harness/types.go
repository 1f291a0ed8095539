package harness

import (
	"github.com/roach88/sewershed/internal/grass"
)

// TraceEvent is one recorded module invocation.
type TraceEvent struct {
	Seq    int      `json:"seq"`
	Module string   `json:"module"`
	Args   []string `json:"args,omitempty"`
	Stdin  string   `json:"stdin,omitempty"`
}

// newTrace converts recorded commands into trace events numbered from 1.
func newTrace(cmds []grass.Command) []TraceEvent {
	trace := make([]TraceEvent, len(cmds))
	for i, c := range cmds {
		trace[i] = TraceEvent{
			Seq:    i + 1,
			Module: c.Module,
			Args:   c.Args(),
			Stdin:  c.Stdin,
		}
	}
	return trace
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates that expectations and assertions all held.
	Pass bool `json:"pass"`

	// Trace contains the module invocations in order, cleanup included.
	Trace []TraceEvent `json:"trace"`

	// Steps are the completed orchestrator steps of a successful run.
	Steps []string `json:"steps,omitempty"`

	// ErrorStep is the step that failed, if any.
	ErrorStep string `json:"error_step,omitempty"`

	// RunError is the run's error message, if any.
	RunError string `json:"run_error,omitempty"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
