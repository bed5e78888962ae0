// Plugins commands render k9s plugin configuration.
package main

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/internal/k9sgen"
)

var flagPluginsOut string

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Render k9s plugin configuration",
}

var pluginsRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Emit plugins.yaml from the configured plugin definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		if len(cfg.Plugins) == 0 {
			fmt.Println("No plugins configured")
			return nil
		}

		data, err := k9sgen.Render(cfg.Plugins)
		if err != nil {
			return err
		}

		if flagPluginsOut == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if flagDryRun {
			logger.Info().Str("path", flagPluginsOut).Msg("would write plugins")
			return nil
		}
		if err := renameio.WriteFile(flagPluginsOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagPluginsOut, err)
		}
		fmt.Println("wrote", flagPluginsOut)
		return nil
	},
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured plugins with their shell commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cfg.Plugins)
		}
		for _, line := range k9sgen.Summaries(cfg.Plugins) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	pluginsRenderCmd.Flags().StringVarP(&flagPluginsOut, "out", "o", "", "write to file instead of stdout")
	pluginsCmd.AddCommand(pluginsRenderCmd)
	pluginsCmd.AddCommand(pluginsListCmd)
}
