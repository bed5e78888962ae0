// Status command shows pending sync actions in both directions without
// applying anything.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending changes between the repo and the home directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSyncer()
		if err != nil {
			return err
		}

		pushPlan, err := s.Plan(cmd.Context(), types.DirectionPush)
		if err != nil {
			return fmt.Errorf("plan push: %w", err)
		}
		pullPlan, err := s.Plan(cmd.Context(), types.DirectionPull)
		if err != nil {
			return fmt.Errorf("plan pull: %w", err)
		}

		if flagJSON {
			return printJSON(struct {
				Push types.SyncPlan `json:"push"`
				Pull types.SyncPlan `json:"pull"`
			}{pushPlan, pullPlan})
		}

		printPlan("push (repo -> home)", pushPlan)
		printPlan("pull (home -> repo)", pullPlan)
		return nil
	},
}

func printPlan(title string, plan types.SyncPlan) {
	fmt.Printf("%s: %d pending, %d unchanged, %d ignored\n",
		title, len(plan.Actions), plan.Unchanged, plan.Ignored)
	for _, a := range plan.Actions {
		fmt.Printf("  %-7s %s\n", a.Op, a.RelPath)
	}
}
