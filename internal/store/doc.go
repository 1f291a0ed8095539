// Package store provides SQLite-backed access to vector attribute tables.
//
// GRASS GIS keeps attribute tables in a SQLite database by default. The store
// opens such a database (or any standalone SQLite file holding attribute
// tables) and implements the attribute side of the external engine:
//
//   - SelectGrouped: one row per distinct grouping value, ORDER BY the group
//   - AddColumns: ALTER TABLE ... ADD COLUMN, all definitions in one transaction
//   - TableInfo: table, key, database path and driver of a layer
//   - ExecuteScript: compiled UPDATE scripts inside a single transaction
//
// Layer 1 of a map uses the table named after the map; layer N uses
// "<map>_<N>", as GRASS names them.
//
// # Database Configuration
//
//   - busy_timeout=5000: wait for locks held by concurrent GRASS modules
//   - one open connection, so BEGIN/COMMIT stay on the same connection
//
// Every failure is returned as *gis.ExternalToolError with Tool "sqlite".
package store
