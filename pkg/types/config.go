// Configuration schema for dotkit. The CLI loads config.yaml through Viper
// and decodes it into Config before handing it to the internal packages.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the decoded form of config.yaml.
type Config struct {
	// RepoDir is the dotfiles repository root. Required.
	RepoDir string `yaml:"repo_dir" mapstructure:"repo_dir"`

	// HomeDir is the deployment target. Defaults to the user home directory
	// when empty.
	HomeDir string `yaml:"home_dir" mapstructure:"home_dir"`

	// Tracked lists repo-relative paths (files or directories) kept in sync
	// between RepoDir and HomeDir.
	Tracked []string `yaml:"tracked" mapstructure:"tracked"`

	// Ignore lists glob patterns matched against repo-relative paths.
	// Matching files are excluded from sync in both directions.
	Ignore []string `yaml:"ignore" mapstructure:"ignore"`

	// Brewfile is the package manifest path, relative to RepoDir when not
	// absolute. Defaults to "Brewfile".
	Brewfile string `yaml:"brewfile" mapstructure:"brewfile"`

	// Backup configures resticprofile generation.
	Backup BackupConfig `yaml:"backup" mapstructure:"backup"`

	// Upgrade lists the steps run by `dotkit upgrade`, in order.
	Upgrade []UpgradeStep `yaml:"upgrade" mapstructure:"upgrade"`

	// Plugins lists the k9s plugin definitions rendered by
	// `dotkit plugins render`.
	Plugins []Plugin `yaml:"plugins" mapstructure:"plugins"`
}

// BackupConfig holds the inputs for resticprofile config generation.
type BackupConfig struct {
	Repository   string    `yaml:"repository" mapstructure:"repository"`
	PasswordFile string    `yaml:"password_file" mapstructure:"password_file"`
	Paths        []string  `yaml:"paths" mapstructure:"paths"`
	Exclude      []string  `yaml:"exclude" mapstructure:"exclude"`
	Schedule     string    `yaml:"schedule" mapstructure:"schedule"`
	Retention    Retention `yaml:"retention" mapstructure:"retention"`
}

// Retention mirrors restic's forget policy knobs.
type Retention struct {
	KeepLast    int  `yaml:"keep_last" mapstructure:"keep_last"`
	KeepDaily   int  `yaml:"keep_daily" mapstructure:"keep_daily"`
	KeepWeekly  int  `yaml:"keep_weekly" mapstructure:"keep_weekly"`
	KeepMonthly int  `yaml:"keep_monthly" mapstructure:"keep_monthly"`
	Prune       bool `yaml:"prune" mapstructure:"prune"`
}

// Empty reports whether no keep-* knob is set.
func (r Retention) Empty() bool {
	return r.KeepLast == 0 && r.KeepDaily == 0 && r.KeepWeekly == 0 && r.KeepMonthly == 0
}

// UpgradeStep is one external command run by `dotkit upgrade`.
type UpgradeStep struct {
	// Name identifies the step in output and in the journal.
	Name string `yaml:"name" mapstructure:"name"`

	// Command is the argv to execute. Command[0] is resolved on PATH.
	Command []string `yaml:"command" mapstructure:"command"`

	// Dir is the working directory. Empty means the current directory.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Optional steps may fail without failing the whole run.
	Optional bool `yaml:"optional" mapstructure:"optional"`
}

// Plugin is one k9s plugin definition.
type Plugin struct {
	Name        string   `yaml:"name" mapstructure:"name"`
	ShortCut    string   `yaml:"shortcut" mapstructure:"shortcut"`
	Description string   `yaml:"description" mapstructure:"description"`
	Scopes      []string `yaml:"scopes" mapstructure:"scopes"`
	Command     string   `yaml:"command" mapstructure:"command"`
	Args        []string `yaml:"args" mapstructure:"args"`
	Confirm     bool     `yaml:"confirm" mapstructure:"confirm"`
	Background  bool     `yaml:"background" mapstructure:"background"`
}

// Config validation errors.
var (
	ErrRepoDirEmpty     = errors.New("repo_dir must not be empty")
	ErrTrackedEmpty     = errors.New("tracked must list at least one path")
	ErrTrackedAbsolute  = errors.New("tracked paths must be relative")
	ErrStepNameEmpty    = errors.New("upgrade step name must not be empty")
	ErrStepCommandEmpty = errors.New("upgrade step command must not be empty")
	ErrPluginNameEmpty  = errors.New("plugin name must not be empty")
	ErrPluginNoShortcut = errors.New("plugin shortcut must not be empty")
	ErrPluginNoCommand  = errors.New("plugin command must not be empty")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package, wrapped with the offending entry where one
// exists.
func (c Config) Validate() error {
	if c.RepoDir == "" {
		return ErrRepoDirEmpty
	}
	if len(c.Tracked) == 0 {
		return ErrTrackedEmpty
	}
	for _, p := range c.Tracked {
		if strings.HasPrefix(p, "/") {
			return fmt.Errorf("%q: %w", p, ErrTrackedAbsolute)
		}
	}
	for i, s := range c.Upgrade {
		if s.Name == "" {
			return fmt.Errorf("upgrade[%d]: %w", i, ErrStepNameEmpty)
		}
		if len(s.Command) == 0 {
			return fmt.Errorf("upgrade step %q: %w", s.Name, ErrStepCommandEmpty)
		}
	}
	for i, p := range c.Plugins {
		if p.Name == "" {
			return fmt.Errorf("plugins[%d]: %w", i, ErrPluginNameEmpty)
		}
		if p.ShortCut == "" {
			return fmt.Errorf("plugin %q: %w", p.Name, ErrPluginNoShortcut)
		}
		if p.Command == "" {
			return fmt.Errorf("plugin %q: %w", p.Name, ErrPluginNoCommand)
		}
	}
	return nil
}
