// Profile commands generate and validate resticprofile configuration.
package main

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/internal/resticgen"
)

var flagProfileOut string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Generate and validate resticprofile configuration",
}

var profileGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Emit resticprofile YAML from the backup settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}

		doc := resticgen.Generate(cfg.Backup)
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("backup settings: %w", err)
		}
		data, err := doc.Marshal()
		if err != nil {
			return err
		}

		if flagProfileOut == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if flagDryRun {
			logger.Info().Str("path", flagProfileOut).Msg("would write profile")
			return nil
		}
		if err := renameio.WriteFile(flagProfileOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagProfileOut, err)
		}
		fmt.Println("wrote", flagProfileOut)
		return nil
	},
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an existing resticprofile YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := resticgen.Load(args[0])
		if err != nil {
			return err
		}
		if err := doc.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
			os.Exit(exitUserError)
		}
		fmt.Println(args[0], "is valid")
		return nil
	},
}

func init() {
	profileGenerateCmd.Flags().StringVarP(&flagProfileOut, "out", "o", "", "write to file instead of stdout")
	profileCmd.AddCommand(profileGenerateCmd)
	profileCmd.AddCommand(profileValidateCmd)
}
