// Shared helpers for dotkit CLI commands.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dotforge/dotkit/internal/journal"
	"github.com/dotforge/dotkit/internal/syncer"
	"github.com/dotforge/dotkit/pkg/types"
)

// errSyncFailed marks a sync run in which at least one action failed. The
// one-shot push and pull commands translate it to a system-error exit;
// watch mode logs it and keeps watching.
var errSyncFailed = errors.New("finished with failures")

// requireConfig validates the loaded config before a command that depends
// on it runs. Validation failures are user errors: the config file needs
// fixing, not the invocation.
func requireConfig() error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// newSyncer builds the sync engine from the loaded config.
func newSyncer() (*syncer.Syncer, error) {
	if err := requireConfig(); err != nil {
		return nil, err
	}
	return syncer.New(cfg, logger)
}

// openJournal resolves the data directory and opens the run journal. The
// caller must defer Close.
func openJournal() (*journal.Journal, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	j, err := journal.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// recordRun journals a finished run. Journal trouble must not fail the
// command whose work already happened, so errors are logged and dropped.
func recordRun(command string, status types.RunStatus, steps []types.StepResult) {
	j, err := openJournal()
	if err != nil {
		logger.Warn().Err(err).Msg("journal unavailable")
		return
	}
	defer j.Close()

	runID, err := j.Begin(command)
	if err == nil {
		err = j.Finish(runID, status, steps)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("journal write failed")
	}
}

// brewfilePath resolves the manifest path relative to the repo.
func brewfilePath() string {
	if filepath.IsAbs(cfg.Brewfile) {
		return cfg.Brewfile
	}
	return filepath.Join(cfg.RepoDir, cfg.Brewfile)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// runSync executes a push or pull: plan, apply, report, journal.
func runSync(ctx context.Context, direction types.Direction) error {
	s, err := newSyncer()
	if err != nil {
		return err
	}

	plan, err := s.Plan(ctx, direction)
	if err != nil {
		return fmt.Errorf("plan %s: %w", direction, err)
	}
	if plan.Empty() {
		if flagJSON {
			return printJSON(plan)
		}
		fmt.Printf("Nothing to %s: %d tracked files up to date\n", direction, plan.Unchanged)
		return nil
	}

	opts := syncer.ApplyOptions{DryRun: flagDryRun}
	if direction == types.DirectionPush && !flagDryRun {
		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		opts.BackupDir = filepath.Join(dataDir, "backups")
	}

	results := s.Apply(ctx, plan, opts)
	status := overallStatus(results)
	if !flagDryRun {
		recordRun(string(direction), status, results)
	}

	if flagJSON {
		if err := printJSON(struct {
			Plan    types.SyncPlan     `json:"plan"`
			Status  types.RunStatus    `json:"status"`
			Results []types.StepResult `json:"results"`
		}{plan, status, results}); err != nil {
			return err
		}
	} else {
		for i, r := range results {
			marker := "ok"
			if r.Status == types.StatusFailed {
				marker = "FAILED"
			} else if r.Status == types.StatusDryRun {
				marker = "would " + string(plan.Actions[i].Op)
			}
			fmt.Printf("  %-7s %s\n", marker, r.Name)
		}
	}

	if status == types.StatusFailed {
		return fmt.Errorf("%s: %w", direction, errSyncFailed)
	}
	return nil
}

// overallStatus folds step results into a run status.
func overallStatus(results []types.StepResult) types.RunStatus {
	status := types.StatusOK
	for _, r := range results {
		switch r.Status {
		case types.StatusFailed:
			return types.StatusFailed
		case types.StatusDryRun:
			status = types.StatusDryRun
		}
	}
	return status
}
