// Package dotkit exposes build metadata for the dotkit CLI.
package dotkit

// Version is the semantic version of the dotkit binary. Overridden at
// release time via -ldflags "-X github.com/dotforge/dotkit/pkg/dotkit.Version=...".
var Version = "0.2.0-dev"
