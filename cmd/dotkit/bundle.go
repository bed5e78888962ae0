// Bundle commands inspect the Brewfile manifest.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/internal/brewfile"
	"github.com/dotforge/dotkit/internal/runner"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Inspect the Brewfile package manifest",
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manifest entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		m, err := brewfile.ParseFile(brewfilePath())
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(m.Entries)
		}
		fmt.Print(m.Format())
		return nil
	},
}

var bundleCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report manifest entries not currently installed",
	Long: `Check parses the Brewfile and compares its brew and cask entries
against the output of "brew list". Missing entries are printed; the
command exits non-zero when anything is missing so it can gate a
bootstrap script.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		m, err := brewfile.ParseFile(brewfilePath())
		if err != nil {
			return err
		}

		r := runner.New(logger, false)
		formulaeOut, err := r.Output(cmd.Context(), "brew", "list", "--formula", "-1")
		if err != nil {
			return fmt.Errorf("list formulae: %w", err)
		}
		casksOut, err := r.Output(cmd.Context(), "brew", "list", "--cask", "-1")
		if err != nil {
			return fmt.Errorf("list casks: %w", err)
		}

		missing := m.Missing(runner.LineSet(formulaeOut), runner.LineSet(casksOut))
		switch {
		case flagJSON:
			if err := printJSON(missing); err != nil {
				return err
			}
		case len(missing) == 0:
			fmt.Println("All manifest entries installed")
		default:
			for _, e := range missing {
				fmt.Printf("  missing %s %q\n", e.Kind, e.Name)
			}
		}
		// Non-zero exit in both output modes so bootstrap scripts can
		// gate on the result.
		if len(missing) > 0 {
			return fmt.Errorf("%d manifest entries not installed", len(missing))
		}
		return nil
	},
}

func init() {
	bundleCmd.AddCommand(bundleListCmd)
	bundleCmd.AddCommand(bundleCheckCmd)
}
