// Package types defines the configuration schema, sync plan types, run
// records, and standard errors shared by the dotkit CLI and its internal
// packages.
package types
