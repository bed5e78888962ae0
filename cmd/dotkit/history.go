// History command lists journaled runs.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/pkg/types"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show journaled runs",
	Long: `History lists recent push, pull, and upgrade runs, newest first.
With a run ID it shows that run including per-step results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		if len(args) == 1 {
			rec, err := j.Get(args[0])
			if errors.Is(err, types.ErrRunNotFound) {
				return fmt.Errorf("run %q not found", args[0])
			}
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(rec)
			}
			printRun(rec)
			for _, step := range rec.Steps {
				fmt.Printf("    %-8s %s", step.Status, step.Name)
				if step.Error != "" {
					fmt.Printf(" (%s)", step.Error)
				}
				fmt.Println()
			}
			return nil
		}

		records, err := j.List(flagHistoryLimit)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(records)
		}
		for _, rec := range records {
			printRun(rec)
		}
		return nil
	},
}

func printRun(rec types.RunRecord) {
	fmt.Printf("%s  %-8s %-8s %s\n",
		rec.RunID, rec.Command, rec.Status,
		rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "number of runs to show")
}
