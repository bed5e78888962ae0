package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotforge/dotkit/pkg/types"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	v, err := loadConfig(dir)
	require.NoError(t, err)

	// First run writes a default config.yaml that parses back.
	assert.FileExists(t, filepath.Join(dir, configFileName))
	assert.Equal(t, "Brewfile", v.GetString("brewfile"))

	var cfg types.Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.NotEmpty(t, cfg.Tracked)
	assert.NotEmpty(t, cfg.Upgrade)
}

func TestLoadConfigDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	custom := "repo_dir: /src/dotfiles\ntracked: [.vimrc]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(custom), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/src/dotfiles", v.GetString("repo_dir"))

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "dotfiles"), expandHome("~/dotfiles"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "rel/path", expandHome("rel/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := types.Config{RepoDir: "~/dotfiles"}
	applyConfigDefaults(&cfg)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dotfiles"), cfg.RepoDir)
	assert.Equal(t, "Brewfile", cfg.Brewfile)
}

func TestOverallStatus(t *testing.T) {
	ok := types.StepResult{Status: types.StatusOK}
	failed := types.StepResult{Status: types.StatusFailed}
	dry := types.StepResult{Status: types.StatusDryRun}

	assert.Equal(t, types.StatusOK, overallStatus(nil))
	assert.Equal(t, types.StatusOK, overallStatus([]types.StepResult{ok, ok}))
	assert.Equal(t, types.StatusFailed, overallStatus([]types.StepResult{ok, failed}))
	assert.Equal(t, types.StatusDryRun, overallStatus([]types.StepResult{dry, dry}))
}
