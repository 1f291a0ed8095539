package gis

import (
	"errors"
	"fmt"
	"strings"
)

// ExternalToolError reports an abnormal exit or unparseable output of an
// external GIS or database command. It is never retried.
type ExternalToolError struct {
	// Tool is the external command, e.g. "v.select" or "sqlite".
	Tool string

	// Args are the command parameters as passed.
	Args []string

	// ExitCode is the process exit code, or -1 when not applicable.
	ExitCode int

	// Stderr is the diagnostic printed by the tool.
	Stderr string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ExternalToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Tool)
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		fmt.Fprintf(&b, ": %s", msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// NewToolError wraps err as an ExternalToolError of tool.
func NewToolError(tool string, err error) *ExternalToolError {
	return &ExternalToolError{Tool: tool, ExitCode: -1, Err: err}
}

// IsExternalToolError reports whether err is or wraps an ExternalToolError.
func IsExternalToolError(err error) bool {
	var te *ExternalToolError
	return errors.As(err, &te)
}
