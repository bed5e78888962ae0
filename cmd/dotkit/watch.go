// Watch command auto-pushes on repository changes.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotforge/dotkit/internal/watch"
	"github.com/dotforge/dotkit/pkg/types"
)

var flagWatchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the repo and push tracked changes automatically",
	Long: `Watch observes the dotfiles repository and runs a push whenever
tracked files change, after a debounce window. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := watch.New(cfg.RepoDir, flagWatchDebounce, logger, func(ctx context.Context) error {
			return runSync(ctx, types.DirectionPush)
		})
		err := w.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().DurationVar(&flagWatchDebounce, "debounce", 500*time.Millisecond, "quiet period before a change triggers a push")
}
