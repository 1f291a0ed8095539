// Package sewershed delineates a sewershed from US Census blocks and
// attaches population statistics to it.
//
// A run is a linear state machine, terminal on the first failure:
//
//	START -> [FILTER_NETWORK] -> SELECT_OVERLAPPING_BLOCKS
//	      -> DISSOLVE_AND_AGGREGATE -> RECORD_PROVENANCE -> DONE
//
// FILTER_NETWORK runs only when a selection column is given. Temporary
// vectors are registered with a TempGuard before they are created and are
// removed when the run returns, on success, failure or cancellation.
//
// The dissolve groups blocks by the census state-name field. Statistics are
// the total population and sixteen ratios of census counts to total
// population; see Columns.
package sewershed
