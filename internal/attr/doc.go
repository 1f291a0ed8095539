// Package attr provides the attribute values exchanged with the external
// GIS engine's attribute tables.
//
// Values form a sealed set: Null, String, Int and Float. Null is an explicit
// type so that a missing group value or a null aggregate result (for example
// a division by a zero population) can travel through the aggregation engine
// unchanged and be written back as SQL NULL.
//
// This package imports nothing internal.
package attr
