package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sewershed/internal/config"
	"github.com/roach88/sewershed/internal/sewershed"
)

// Scenario defines one delineation run and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is the fixed run id. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Options are the run options, in config file form.
	Options config.Run `yaml:"options"`

	// Outputs holds canned standard output per module.
	Outputs map[string]string `yaml:"outputs,omitempty"`

	// Failures makes the named modules fail with the given diagnostic.
	Failures map[string]string `yaml:"failures,omitempty"`

	// Attributes routes attribute access to an in-memory SQLite database.
	Attributes *Attributes `yaml:"attributes,omitempty"`

	// Expect describes the run outcome.
	Expect Expect `yaml:"expect"`

	// Assertions validate the trace and final attribute state.
	Assertions []Assertion `yaml:"assertions"`
}

// Attributes seeds the in-memory attribute database.
type Attributes struct {
	SetupSQL []string `yaml:"setup_sql"`
}

// Expect is the expected run outcome.
type Expect struct {
	// Steps are the steps expected to complete, in order, on success.
	Steps []string `yaml:"steps"`

	// ErrorStep is the step expected to fail. Empty means success.
	ErrorStep string `yaml:"error_step,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check module appears in trace with params
	// - "trace_order": Check modules appear in order
	// - "trace_count": Check module appears exactly N times
	// - "final_state": Query table and verify expected values
	Type string `yaml:"type"`

	// Module is the GRASS module name (used by trace_contains, trace_count).
	Module string `yaml:"module,omitempty"`

	// Params are the expected key=value parameters (used by trace_contains).
	// Subset match - only specified keys are validated.
	Params map[string]string `yaml:"params,omitempty"`

	// Table is the attribute table name (used by final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies row filters (used by final_state).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (used by final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Modules is the expected module order (used by trace_order).
	Modules []string `yaml:"modules,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

var validSteps = map[string]bool{
	string(sewershed.StepFilterNetwork):           true,
	string(sewershed.StepSelectOverlappingBlocks): true,
	string(sewershed.StepDissolveAndAggregate):    true,
	string(sewershed.StepRecordProvenance):        true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := s.Options.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	for i, step := range s.Expect.Steps {
		if !validSteps[step] {
			return fmt.Errorf("expect.steps[%d]: unknown step %q", i, step)
		}
	}
	if s.Expect.ErrorStep != "" && !validSteps[s.Expect.ErrorStep] {
		return fmt.Errorf("expect.error_step: unknown step %q", s.Expect.ErrorStep)
	}

	if s.Attributes != nil && len(s.Attributes.SetupSQL) == 0 {
		return fmt.Errorf("attributes.setup_sql must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, s.Attributes != nil); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, hasAttributes bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Module == "" {
			return fmt.Errorf("assertions[%d]: module is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Modules) == 0 {
			return fmt.Errorf("assertions[%d]: modules list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Module == "" {
			return fmt.Errorf("assertions[%d]: module is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if !hasAttributes {
			return fmt.Errorf("assertions[%d]: final_state requires attributes", index)
		}
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
