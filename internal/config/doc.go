// Package config loads delineation run settings from YAML or TOML files.
//
// Files are decoded strictly (unknown keys are rejected) and then checked
// against an embedded CUE schema before use. Command-line flags override
// file values; see Run.Merge.
package config
