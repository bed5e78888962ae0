// Root command for the dotkit CLI.
package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/internal/logging"
	"github.com/dotforge/dotkit/internal/paths"
	"github.com/dotforge/dotkit/pkg/dotkit"
	"github.com/dotforge/dotkit/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagDryRun    bool
)

// Set by PersistentPreRunE so all subcommands can use them.
var (
	cfg           types.Config
	configDataDir string
	logger        zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "dotkit",
	Short:   "Dotkit bootstraps a machine from a dotfiles repository",
	Version: dotkit.Version,
	Long: `Dotkit keeps a dotfiles repository and the home directory in sync,
reconciles a Brewfile package manifest, runs package-manager upgrades,
and generates resticprofile and k9s configuration from one config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(flagJSON)

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = v.GetString(cfgKeyDataDir)
		if err := v.Unmarshal(&cfg); err != nil {
			return err
		}
		applyConfigDefaults(&cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "log actions without applying them")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > DOTKIT_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence chain:
// --data-dir flag > config.yaml data_dir > DOTKIT_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}
