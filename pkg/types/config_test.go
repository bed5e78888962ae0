package types

import (
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		RepoDir: "/home/u/dotfiles",
		Tracked: []string{".config/fish", ".vimrc"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid minimal config",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "empty repo_dir returns ErrRepoDirEmpty",
			mutate:  func(c *Config) { c.RepoDir = "" },
			wantErr: ErrRepoDirEmpty,
		},
		{
			name:    "no tracked paths returns ErrTrackedEmpty",
			mutate:  func(c *Config) { c.Tracked = nil },
			wantErr: ErrTrackedEmpty,
		},
		{
			name:    "absolute tracked path returns ErrTrackedAbsolute",
			mutate:  func(c *Config) { c.Tracked = []string{"/etc/passwd"} },
			wantErr: ErrTrackedAbsolute,
		},
		{
			name: "upgrade step without name",
			mutate: func(c *Config) {
				c.Upgrade = []UpgradeStep{{Command: []string{"brew", "update"}}}
			},
			wantErr: ErrStepNameEmpty,
		},
		{
			name: "upgrade step without command",
			mutate: func(c *Config) {
				c.Upgrade = []UpgradeStep{{Name: "brew-update"}}
			},
			wantErr: ErrStepCommandEmpty,
		},
		{
			name: "plugin without name",
			mutate: func(c *Config) {
				c.Plugins = []Plugin{{ShortCut: "Ctrl-L", Command: "stern"}}
			},
			wantErr: ErrPluginNameEmpty,
		},
		{
			name: "plugin without shortcut",
			mutate: func(c *Config) {
				c.Plugins = []Plugin{{Name: "logs", Command: "stern"}}
			},
			wantErr: ErrPluginNoShortcut,
		},
		{
			name: "plugin without command",
			mutate: func(c *Config) {
				c.Plugins = []Plugin{{Name: "logs", ShortCut: "Ctrl-L"}}
			},
			wantErr: ErrPluginNoCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRetentionEmpty(t *testing.T) {
	if !(Retention{}).Empty() {
		t.Fatal("zero retention should be empty")
	}
	if (Retention{KeepDaily: 7}).Empty() {
		t.Fatal("retention with keep_daily should not be empty")
	}
	if (Retention{Prune: true}).Empty() != true {
		t.Fatal("prune alone does not make retention non-empty")
	}
}
