package types

import (
	"errors"
	"time"
)

// RunStatus is the terminal state of a journaled run.
type RunStatus string

const (
	// StatusOK means every step succeeded.
	StatusOK RunStatus = "ok"
	// StatusPartial means at least one optional step failed.
	StatusPartial RunStatus = "partial"
	// StatusFailed means a required step failed or the run aborted.
	StatusFailed RunStatus = "failed"
	// StatusDryRun means no changes were applied.
	StatusDryRun RunStatus = "dry-run"
)

// RunRecord is one journaled invocation of a mutating dotkit command.
type RunRecord struct {
	RunID      string       `json:"run_id"`
	Command    string       `json:"command"`
	Status     RunStatus    `json:"status"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepResult `json:"steps,omitempty"`
}

// StepResult is the outcome of one step within a run: an upgrade command,
// or one file action of a sync.
type StepResult struct {
	Name     string        `json:"name"`
	Status   RunStatus     `json:"status"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Journal lifecycle and lookup errors.
var (
	ErrJournalClosed = errors.New("journal is not open")
	ErrRunNotFound   = errors.New("run not found")
)
