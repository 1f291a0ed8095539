package grass

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sewershed/internal/gis"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestExecRunner_Stdin(t *testing.T) {
	requireBinary(t, "cat")

	out, err := (&ExecRunner{}).Run(context.Background(), Command{Module: "cat", Stdin: "BEGIN TRANSACTION\nEND TRANSACTION"})
	require.NoError(t, err)
	assert.Equal(t, "BEGIN TRANSACTION\nEND TRANSACTION", string(out))
}

func TestExecRunner_ExitCode(t *testing.T) {
	requireBinary(t, "false")

	_, err := (&ExecRunner{}).Run(context.Background(), Command{Module: "false"})
	require.Error(t, err)

	var toolErr *gis.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "false", toolErr.Tool)
	assert.Equal(t, 1, toolErr.ExitCode)
}

func TestExecRunner_MissingModule(t *testing.T) {
	_, err := (&ExecRunner{Dir: t.TempDir()}).Run(context.Background(), Command{Module: "v.select"})
	require.Error(t, err)

	var toolErr *gis.ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, -1, toolErr.ExitCode)
}

func TestExecRunner_DirHoldsModules(t *testing.T) {
	requireBinary(t, "sh")

	dir := t.TempDir()
	script := "#!/bin/sh\necho \"$@\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v.support"), []byte(script), 0o755))

	out, err := (&ExecRunner{Dir: dir}).Run(context.Background(),
		Command{Module: "v.support", Params: []Param{p("map", "out"), p("cmdhist", "sewershed")}, Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, "map=out cmdhist=sewershed --quiet\n", string(out))
}

func TestExecRunner_CancelledContext(t *testing.T) {
	requireBinary(t, "cat")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&ExecRunner{}).Run(ctx, Command{Module: "cat"})
	require.Error(t, err)
	assert.True(t, gis.IsExternalToolError(err))
}
