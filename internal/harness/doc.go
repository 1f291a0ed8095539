// Package harness runs delineation scenarios against a recorded GRASS session.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: filtered_network
//	description: "Network filtered by system before block selection"
//	run_id: run-filtered
//	options:
//	  sewer: sewers
//	  census_blocks: blocks
//	  output: out
//	  sewer_select_column: system
//	  sewer_select_value: Texas
//	outputs:
//	  v.db.connect: "1/out;out;cat;/grassdata/sqlite.db;sqlite"
//	failures:
//	  v.dissolve: "ERROR: column State_Name not found"
//	attributes:
//	  setup_sql:
//	    - CREATE TABLE tmp_blocks (cat INTEGER, State_Name TEXT, ...)
//	expect:
//	  steps: [FILTER_NETWORK, SELECT_OVERLAPPING_BLOCKS]
//	  error_step: DISSOLVE_AND_AGGREGATE
//	assertions:
//	  - type: trace_contains
//	    module: v.extract
//	    params: { where: "system = 'Texas'" }
//	  - type: final_state
//	    table: out
//	    where: { State_Name: Texas }
//	    expect: { total_population: 30 }
//
// Options use the config file keys. Outputs and failures are canned module
// results keyed by module name.
//
// When attributes is present, attribute reads and writes go to an in-memory
// SQLite database seeded with setup_sql instead of the recorded modules, and
// final_state assertions query that database.
//
// # Assertion Types
//
//   - trace_contains: a module ran with matching params (subset match)
//   - trace_order: modules ran in the given order
//   - trace_count: a module ran exactly N times
//   - final_state: a row of the attribute database has the expected values
//
// # Deterministic Testing
//
// Runs use a fixed run id (run_id, default "test-run-default") and
// temporary names equal to their prefixes, so traces are stable for golden
// comparison.
package harness
