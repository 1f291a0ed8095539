package grass

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/roach88/sewershed/internal/gis"
)

// Runner executes GRASS modules.
type Runner interface {
	// Run executes cmd and returns its standard output.
	// Failures are returned as *gis.ExternalToolError.
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs modules as child processes of a GRASS session.
type ExecRunner struct {
	// Dir is prepended to module names when set, e.g. "$GISBASE/bin".
	Dir string

	// Env overrides the child environment when non-nil.
	Env []string
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	path := cmd.Module
	if r.Dir != "" {
		path = filepath.Join(r.Dir, cmd.Module)
	}

	c := exec.CommandContext(ctx, path, cmd.Args()...)
	if r.Env != nil {
		c.Env = r.Env
	}
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	if cmd.DiscardStderr {
		c.Stderr = io.Discard
	} else {
		c.Stderr = &stderr
	}

	slog.Debug("running module", "module", cmd.Module, "args", cmd.Args())

	if err := c.Run(); err != nil {
		toolErr := &gis.ExternalToolError{
			Tool:     cmd.Module,
			Args:     cmd.Args(),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return nil, toolErr
	}
	return stdout.Bytes(), nil
}
