// Package syncer plans and applies dotfile synchronization between the
// repository tree and the home directory.
//
// A sync is two-phase: Plan walks the tracked paths of the source tree and
// compares content hashes against the destination, producing an ordered
// action list; Apply executes that list with atomic replacement so a
// half-written rc file is never observed.
package syncer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dotforge/dotkit/pkg/types"
)

// Syncer compares and copies tracked files between two tree roots.
type Syncer struct {
	repoDir string
	homeDir string
	tracked []string
	ignore  []string
	log     zerolog.Logger
}

// ApplyOptions control how a plan is executed.
type ApplyOptions struct {
	// DryRun logs actions without writing anything.
	DryRun bool
	// BackupDir, when non-empty, receives a copy of every destination file
	// that an update overwrites, under its relative path.
	BackupDir string
}

// New builds a Syncer from the validated config. HomeDir defaults to the
// user home directory. Tracked paths are confined to the roots up front so
// a bad config fails before any walk.
func New(cfg types.Config, logger zerolog.Logger) (*Syncer, error) {
	home := cfg.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
	}

	for _, p := range cfg.Tracked {
		if _, err := confineRelPath(cfg.RepoDir, p); err != nil {
			return nil, fmt.Errorf("tracked path %q: %w", p, err)
		}
	}

	return &Syncer{
		repoDir: cfg.RepoDir,
		homeDir: home,
		tracked: cfg.Tracked,
		ignore:  cfg.Ignore,
		log:     logger,
	}, nil
}

// roots returns (src, dst) for the given direction.
func (s *Syncer) roots(dir types.Direction) (string, string) {
	if dir == types.DirectionPull {
		return s.homeDir, s.repoDir
	}
	return s.repoDir, s.homeDir
}

// candidate is one source file examined during planning.
type candidate struct {
	rel  string
	mode fs.FileMode
}

// Plan walks the tracked paths of the source tree and returns the actions
// needed to make the destination match. The action list is sorted by
// relative path so output and journal entries are stable.
func (s *Syncer) Plan(ctx context.Context, direction types.Direction) (types.SyncPlan, error) {
	src, dst := s.roots(direction)
	plan := types.SyncPlan{Direction: direction}

	var candidates []candidate
	// Tracked paths may overlap (".config" and ".config/fish"); a file
	// must be planned once no matter how many tracked roots cover it.
	seen := make(map[string]bool)
	ignored := 0
	for _, tracked := range s.tracked {
		root, err := confineRelPath(src, tracked)
		if err != nil {
			return plan, err
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == root {
					// A tracked path absent from the source tree is not an
					// error; it may only exist on the other side yet.
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				s.log.Debug().Str("path", path).Msg("skipping irregular file")
				return nil
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			if seen[rel] {
				return nil
			}
			seen[rel] = true
			if s.isIgnored(rel) {
				ignored++
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			candidates = append(candidates, candidate{rel: rel, mode: info.Mode()})
			return nil
		})
		if err != nil {
			return plan, fmt.Errorf("walk %s: %w", tracked, err)
		}
	}
	plan.Ignored = ignored

	// Hash comparison is read-heavy; bound the parallelism to the CPU count.
	actions := make([]*types.SyncAction, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			op, err := compareFile(filepath.Join(src, c.rel), filepath.Join(dst, c.rel))
			if err != nil {
				return err
			}
			if op != "" {
				actions[i] = &types.SyncAction{RelPath: c.rel, Op: op, Mode: uint32(c.mode.Perm())}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return plan, err
	}

	for _, a := range actions {
		if a == nil {
			plan.Unchanged++
			continue
		}
		plan.Actions = append(plan.Actions, *a)
	}
	sort.Slice(plan.Actions, func(i, j int) bool {
		return plan.Actions[i].RelPath < plan.Actions[j].RelPath
	})
	return plan, nil
}

// compareFile decides the operation needed to make dst match src. An empty
// op means the files already match. A destination blocked by the wrong
// node type (a directory where a file belongs, or a file in the middle of
// the path) still yields an action; Apply reports the conflict.
func compareFile(srcPath, dstPath string) (types.SyncOp, error) {
	info, err := os.Stat(dstPath)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return types.OpCreate, nil
		}
		return "", err
	}
	if info.IsDir() {
		return types.OpUpdate, nil
	}

	srcSum, err := hashFile(srcPath)
	if err != nil {
		return "", err
	}
	dstSum, err := hashFile(dstPath)
	if err != nil {
		return "", err
	}
	if srcSum != dstSum {
		return types.OpUpdate, nil
	}
	return "", nil
}

func hashFile(path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, fmt.Errorf("hash %s: %w", path, err)
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// isIgnored matches rel against the ignore patterns. Patterns apply to the
// full relative path and to the base name, so ".DS_Store" and
// ".config/fish/fish_variables" both work as written.
func (s *Syncer) isIgnored(rel string) bool {
	base := filepath.Base(rel)
	for _, pattern := range s.ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Apply executes the plan's actions in order, returning one result per
// action. A failed action is recorded and the remaining actions still run;
// the caller inspects the results for overall status.
func (s *Syncer) Apply(ctx context.Context, plan types.SyncPlan, opts ApplyOptions) []types.StepResult {
	src, dst := s.roots(plan.Direction)
	results := make([]types.StepResult, 0, len(plan.Actions))

	for _, action := range plan.Actions {
		start := time.Now()
		result := types.StepResult{Name: action.RelPath, Status: types.StatusOK}

		if err := ctx.Err(); err != nil {
			result.Status = types.StatusFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		if opts.DryRun {
			s.log.Info().Str("path", action.RelPath).Str("op", string(action.Op)).Msg("would sync")
			result.Status = types.StatusDryRun
			result.Duration = time.Since(start)
			results = append(results, result)
			continue
		}

		if err := s.applyOne(src, dst, action, opts); err != nil {
			s.log.Error().Err(err).Str("path", action.RelPath).Msg("sync failed")
			result.Status = types.StatusFailed
			result.Error = err.Error()
		} else {
			s.log.Info().Str("path", action.RelPath).Str("op", string(action.Op)).Msg("synced")
		}
		result.Duration = time.Since(start)
		results = append(results, result)
	}
	return results
}

// applyOne copies one file src -> dst with atomic replacement, taking a
// backup of the overwritten destination when configured.
func (s *Syncer) applyOne(src, dst string, action types.SyncAction, opts ApplyOptions) error {
	srcPath := filepath.Join(src, action.RelPath)
	dstPath, err := confineRelPath(dst, action.RelPath)
	if err != nil {
		return err
	}

	if opts.BackupDir != "" && action.Op == types.OpUpdate {
		if err := s.backupFile(dstPath, action.RelPath, opts.BackupDir); err != nil {
			return fmt.Errorf("backup %s: %w", action.RelPath, err)
		}
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(dstPath, data, fs.FileMode(action.Mode))
}

// backupFile copies the current destination file into backupDir under its
// relative path before it is overwritten.
func (s *Syncer) backupFile(dstPath, rel, backupDir string) error {
	data, err := os.ReadFile(dstPath)
	if err != nil {
		return err
	}
	target, err := confineRelPath(backupDir, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}
