package testutil

// FixedRunID generates the same run id every time.
//
// This enables deterministic orchestrator tests and golden comparison of the
// recorded command history.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a new fixed run id generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run id.
//
// Implements sewershed.RunIDGenerator interface.
func (g *FixedRunID) Generate() string {
	return g.id
}
