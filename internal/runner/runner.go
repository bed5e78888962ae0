// Package runner executes the external commands dotkit orchestrates: the
// upgrade steps from config and the package-manager queries behind
// `bundle check`.
package runner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotforge/dotkit/pkg/types"
)

// Runner runs external commands with structured logging and optional
// dry-run.
type Runner struct {
	log    zerolog.Logger
	dryRun bool
}

// New returns a Runner. With dryRun set, Run logs what it would execute
// and touches nothing.
func New(logger zerolog.Logger, dryRun bool) *Runner {
	return &Runner{log: logger, dryRun: dryRun}
}

// Run executes the steps in order and returns one result per executed
// step plus the overall status. A failed required step stops the run; a
// failed optional step downgrades the status to partial and the run
// continues.
func (r *Runner) Run(ctx context.Context, steps []types.UpgradeStep) ([]types.StepResult, types.RunStatus) {
	if r.dryRun {
		results := make([]types.StepResult, 0, len(steps))
		for _, step := range steps {
			r.log.Info().Str("step", step.Name).Strs("command", step.Command).Msg("would run")
			results = append(results, types.StepResult{Name: step.Name, Status: types.StatusDryRun})
		}
		return results, types.StatusDryRun
	}

	status := types.StatusOK
	results := make([]types.StepResult, 0, len(steps))
	for _, step := range steps {
		result := r.runStep(ctx, step)
		results = append(results, result)
		if result.Status != types.StatusFailed {
			continue
		}
		if step.Optional {
			status = types.StatusPartial
			continue
		}
		status = types.StatusFailed
		break
	}
	return results, status
}

// runStep executes one step, capturing combined output.
func (r *Runner) runStep(ctx context.Context, step types.UpgradeStep) types.StepResult {
	start := time.Now()
	r.log.Info().Str("step", step.Name).Strs("command", step.Command).Msg("running step")

	cmd := exec.CommandContext(ctx, step.Command[0], step.Command[1:]...)
	cmd.Dir = step.Dir
	out, err := cmd.CombinedOutput()

	result := types.StepResult{
		Name:     step.Name,
		Status:   types.StatusOK,
		Output:   strings.TrimSpace(string(out)),
		Duration: time.Since(start),
	}
	if err != nil {
		result.Status = types.StatusFailed
		result.Error = err.Error()
		r.log.Error().Err(err).Str("step", step.Name).Dur("took", result.Duration).Msg("step failed")
		return result
	}
	r.log.Info().Str("step", step.Name).Dur("took", result.Duration).Msg("step done")
	return result
}

// Output runs argv and returns its stdout. Used for queries like
// `brew list --formula` where the output is the point.
func (r *Runner) Output(ctx context.Context, argv ...string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}
	return string(out), nil
}

// Lines splits command output into trimmed non-empty lines, the shape
// `brew list` and friends produce.
func Lines(output string) []string {
	var out []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// LineSet is Lines collected into a membership set.
func LineSet(output string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range Lines(output) {
		set[line] = true
	}
	return set
}
