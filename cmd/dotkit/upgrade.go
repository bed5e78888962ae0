// Upgrade command runs the configured package-manager steps in order.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/internal/runner"
	"github.com/dotforge/dotkit/pkg/types"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Run the configured upgrade steps",
	Long: `Upgrade runs the steps listed under "upgrade" in config.yaml, in
order. A failed required step stops the run; a failed optional step is
recorded and the run continues. The outcome is journaled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		if len(cfg.Upgrade) == 0 {
			fmt.Println("No upgrade steps configured")
			return nil
		}

		r := runner.New(logger, flagDryRun)
		results, status := r.Run(cmd.Context(), cfg.Upgrade)
		if !flagDryRun {
			recordRun("upgrade", status, results)
		}

		if flagJSON {
			if err := printJSON(struct {
				Status  types.RunStatus    `json:"status"`
				Results []types.StepResult `json:"results"`
			}{status, results}); err != nil {
				return err
			}
		} else {
			for _, res := range results {
				fmt.Printf("  %-8s %s (%s)\n", res.Status, res.Name, res.Duration.Round(time.Millisecond))
			}
		}

		// Exit codes hold in both output modes.
		switch status {
		case types.StatusFailed:
			fmt.Fprintln(os.Stderr, "upgrade failed")
			os.Exit(exitSysError)
		case types.StatusPartial:
			if !flagJSON {
				fmt.Println("upgrade finished with optional-step failures")
			}
		}
		return nil
	},
}
