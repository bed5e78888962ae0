package types

// Direction selects which tree is the source during a sync.
type Direction string

const (
	// DirectionPush deploys repo files into the home directory.
	DirectionPush Direction = "push"
	// DirectionPull collects home files back into the repository.
	DirectionPull Direction = "pull"
)

// SyncOp is the kind of change a sync action applies.
type SyncOp string

const (
	// OpCreate writes a file that does not exist at the destination.
	OpCreate SyncOp = "create"
	// OpUpdate replaces a destination file whose content differs.
	OpUpdate SyncOp = "update"
)

// SyncAction is one planned file operation. RelPath is relative to both
// tree roots.
type SyncAction struct {
	RelPath string `json:"rel_path"`
	Op      SyncOp `json:"op"`
	// Mode is the source file mode, applied to the destination on write.
	Mode uint32 `json:"mode"`
}

// SyncPlan is the ordered list of actions a push or pull would apply,
// together with bookkeeping about what was examined.
type SyncPlan struct {
	Direction Direction    `json:"direction"`
	Actions   []SyncAction `json:"actions"`
	// Unchanged counts tracked files that already match.
	Unchanged int `json:"unchanged"`
	// Ignored counts files excluded by ignore patterns.
	Ignored int `json:"ignored"`
}

// Empty reports whether the plan has nothing to apply.
func (p SyncPlan) Empty() bool { return len(p.Actions) == 0 }
