package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario errors:\n%s", strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRun_ExpectationMismatchFails(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/dissolve_failure.yaml")
	require.NoError(t, err)

	scenario.Expect.ErrorStep = "SELECT_OVERLAPPING_BLOCKS"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], `expected error step "SELECT_OVERLAPPING_BLOCKS", got "DISSOLVE_AND_AGGREGATE"`)
}

func TestRun_BadSetupSQL(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/sqlite_attributes.yaml")
	require.NoError(t, err)

	scenario.Attributes.SetupSQL = []string{"CREATE TABLE"}

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup_sql[0]")
}

func TestRun_FailedStepReported(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/dissolve_failure.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, "DISSOLVE_AND_AGGREGATE", result.ErrorStep)
	assert.Contains(t, result.RunError, "State_Name")
	assert.Empty(t, result.Steps)
}
