// Package aggregate computes grouped attribute statistics and writes them
// back as new columns of an output attribute table.
//
// The flow is:
//
//  1. NewSpec validates the requested aggregates and resolves result types.
//  2. Engine.Aggregate queries the input table grouped by one column and
//     produces a Plan: per-group column updates plus the column definitions
//     the output table needs.
//  3. Applier.Apply adds the columns, compiles the updates into one
//     transactional script and executes it against the output table.
//
// Column additions and the update script are separate requests to the
// external engine. If the script fails after the columns were added, the
// columns stay; callers see the ExternalToolError and nothing is rolled back
// across the two steps.
package aggregate
