package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotforge/dotkit/pkg/types"
)

// setGlobals installs command globals for a test and restores them after.
func setGlobals(t *testing.T, c types.Config, jsonMode bool) {
	t.Helper()
	oldCfg, oldJSON, oldDry, oldDataDir := cfg, flagJSON, flagDryRun, flagDataDir
	cfg, flagJSON, flagDryRun = c, jsonMode, false
	flagDataDir = t.TempDir()
	logger = zerolog.Nop()
	t.Cleanup(func() {
		cfg, flagJSON, flagDryRun, flagDataDir = oldCfg, oldJSON, oldDry, oldDataDir
	})
}

// failingSyncConfig returns a config whose push must fail: the destination
// path is occupied by a directory, so the file replacement cannot land.
func failingSyncConfig(t *testing.T) types.Config {
	t.Helper()
	repo := t.TempDir()
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".vimrc"), []byte("set number\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(home, ".vimrc"), 0o755))
	return types.Config{RepoDir: repo, HomeDir: home, Tracked: []string{".vimrc"}}
}

func TestRunSyncFailureReturnsError(t *testing.T) {
	for _, jsonMode := range []bool{false, true} {
		name := "text"
		if jsonMode {
			name = "json"
		}
		t.Run(name, func(t *testing.T) {
			setGlobals(t, failingSyncConfig(t), jsonMode)

			// A failed action surfaces as errSyncFailed instead of
			// terminating the process, so watch mode can keep going and
			// push/pull choose the exit code.
			err := runSync(context.Background(), types.DirectionPush)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errSyncFailed), "got %v", err)
		})
	}
}

func TestRunSyncCleanTreeSucceeds(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".vimrc"), []byte("set number\n"), 0o644))

	setGlobals(t, types.Config{RepoDir: repo, HomeDir: home, Tracked: []string{".vimrc"}}, false)

	require.NoError(t, runSync(context.Background(), types.DirectionPush))
	assert.FileExists(t, filepath.Join(home, ".vimrc"))
}

// stubBrew puts a fake brew on PATH that reports nothing installed.
func stubBrew(t *testing.T) {
	t.Helper()
	bin := t.TempDir()
	script := "#!/bin/sh\nexit 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "brew"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestBundleCheckMissingFailsInBothOutputModes(t *testing.T) {
	stubBrew(t)

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "Brewfile"), []byte("brew \"git\"\n"), 0o644))
	c := types.Config{RepoDir: repo, Tracked: []string{".vimrc"}, Brewfile: "Brewfile"}

	for _, jsonMode := range []bool{false, true} {
		name := "text"
		if jsonMode {
			name = "json"
		}
		t.Run(name, func(t *testing.T) {
			setGlobals(t, c, jsonMode)

			bundleCheckCmd.SetContext(context.Background())
			err := bundleCheckCmd.RunE(bundleCheckCmd, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not installed")
		})
	}
}

func TestBundleCheckAllInstalled(t *testing.T) {
	bin := t.TempDir()
	script := "#!/bin/sh\necho git\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "brew"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "Brewfile"), []byte("brew \"git\"\n"), 0o644))
	setGlobals(t, types.Config{RepoDir: repo, Tracked: []string{".vimrc"}, Brewfile: "Brewfile"}, false)

	bundleCheckCmd.SetContext(context.Background())
	require.NoError(t, bundleCheckCmd.RunE(bundleCheckCmd, nil))
}
