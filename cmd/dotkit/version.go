// Version command for the dotkit CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/pkg/dotkit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dotkit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dotkit", dotkit.Version)
	},
}
