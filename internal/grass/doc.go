// Package grass drives the GRASS GIS command suite as the external GIS engine.
//
// Each operation is one module invocation with named parameters
// ("v.select ainput=blocks operator=intersects ..."). Modules run through a
// Runner; ExecRunner starts real processes, tests substitute a recorder.
//
// Session implements gis.Engine on top of a Runner:
//
//	v.extract       Extract
//	v.select        Select
//	v.dissolve      Dissolve
//	g.remove        Remove
//	v.support       History
//	v.db.select     SelectGrouped (JSON row lists)
//	v.db.addcolumn  AddColumns
//	v.db.connect    TableInfo
//	db.execute      ExecuteScript (script on standard input)
//
// With direct SQLite enabled, scripts for layers whose driver is "sqlite"
// are executed in-process by package store instead of db.execute.
package grass
