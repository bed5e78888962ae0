// Package main provides the dotkit CLI: a machine-bootstrap tool that
// syncs dotfiles, reconciles a Brewfile manifest, drives package-manager
// upgrades, and generates resticprofile and k9s configuration.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
