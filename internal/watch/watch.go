// Package watch observes the dotfiles repository and triggers a sync when
// tracked files change.
//
// Events are debounced: editors write rc files several times in quick
// succession (swap, truncate, rename), and one push per editing burst is
// what the user wants.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher runs a callback after changes under a root settle.
type Watcher struct {
	root     string
	debounce time.Duration
	log      zerolog.Logger
	onChange func(context.Context) error
}

// New builds a Watcher over root. debounce is the quiet period required
// before onChange fires; zero means 500ms.
func New(root string, debounce time.Duration, logger zerolog.Logger, onChange func(context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{root: root, debounce: debounce, log: logger, onChange: onChange}
}

// Run watches until ctx is cancelled. Directories created while watching
// are added to the watch set so new config subtrees are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := addRecursive(fw, w.root); err != nil {
		return err
	}
	w.log.Info().Str("root", w.root).Dur("debounce", w.debounce).Msg("watching")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(fw, event.Name); err != nil {
						w.log.Warn().Err(err).Str("dir", event.Name).Msg("watch new dir failed")
					}
				}
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change")
			if pending {
				if !timer.Stop() {
					<-timer.C
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			pending = false
			if err := w.onChange(ctx); err != nil {
				w.log.Error().Err(err).Msg("sync after change failed")
			}
		}
	}
}

// addRecursive registers root and every directory below it.
func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(path)
	})
}
