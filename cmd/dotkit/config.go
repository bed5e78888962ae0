// Config loading for the dotkit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotforge/dotkit/pkg/types"
)

const (
	configBaseName = "config"
	configFileType = "yaml"
	configFileName = "config.yaml"

	cfgKeyDataDir = "data_dir"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# dotkit configuration
#
# repo_dir is the dotfiles repository; tracked paths are synced between
# repo_dir and the home directory by push/pull.

# repo_dir: ~/dotfiles

tracked:
  - .config/fish
  - .config/kitty
  - .vimrc

ignore:
  - .DS_Store
  - fish_variables

# Package manifest, relative to repo_dir.
brewfile: Brewfile

# Steps run by "dotkit upgrade", in order.
upgrade:
  - name: brew-update
    command: [brew, update]
  - name: brew-bundle
    command: [brew, bundle, --no-lock]
  - name: fisher-update
    command: [fish, -c, "fisher update"]
    optional: true

# Data directory override (optional; overridable by --data-dir flag)
# data_dir:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault("brewfile", "Brewfile")
	v.SetConfigName(configBaseName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileName)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// applyConfigDefaults expands ~ in the directory settings and fills the
// Brewfile default. Expansion failures are left to surface later as
// missing-path errors with the literal value intact.
func applyConfigDefaults(cfg *types.Config) {
	cfg.RepoDir = expandHome(cfg.RepoDir)
	cfg.HomeDir = expandHome(cfg.HomeDir)
	cfg.Brewfile = expandHome(cfg.Brewfile)
	if cfg.Brewfile == "" {
		cfg.Brewfile = "Brewfile"
	}
}

// expandHome replaces a leading ~ with the user home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
