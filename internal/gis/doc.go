// Package gis defines the contracts of the external GIS engine.
//
// The engine owns the vector data model, spatial selection, dissolve and the
// attribute-table database. This repository only sequences requests to it:
//
//   - Vectors: extract, spatial select, dissolve, remove, history
//   - AttributeReader: grouped attribute queries
//   - AttributeWriter: column additions and SQL script execution
//
// Every failure reported by the engine is an *ExternalToolError.
package gis
