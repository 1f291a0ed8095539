// Package attrsql renders attribute updates as SQL text for the external
// attribute database.
//
// Two quoting rules live here and are kept apart on purpose:
//
//   - Type-based: NeedsQuoting decides from a declared column type whether a
//     SET value is wrapped in single quotes.
//   - Caller-directed: WhereForValue builds a row-selector predicate for a
//     grouping-column value and quotes only when the caller asks for it.
//
// The external database driver accepts literal SQL over a write channel
// rather than a prepared-statement API, so values are rendered as text.
// Embedded single quotes are doubled.
package attrsql
