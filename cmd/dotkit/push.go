// Push command deploys tracked files from the repository into the home
// directory.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/pkg/types"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Deploy tracked dotfiles from the repo to the home directory",
	Long: `Push copies tracked files whose content differs from the repository
into the home directory. Files overwritten by an update are backed up
under the data directory first. Writes are atomic; a partially written
rc file is never left behind.

Use --dry-run to see what would change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runSync(cmd.Context(), types.DirectionPush)
		if errors.Is(err, errSyncFailed) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitSysError)
		}
		return err
	},
}
