// Pull command collects tracked files from the home directory back into
// the repository.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/pkg/types"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Collect tracked dotfiles from the home directory into the repo",
	Long: `Pull copies tracked files whose content differs from the home
directory into the repository, ready to review and commit.

Use --dry-run to see what would change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runSync(cmd.Context(), types.DirectionPull)
		if errors.Is(err, errSyncFailed) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitSysError)
		}
		return err
	},
}
