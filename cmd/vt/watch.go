package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/watcher"
)

var watchPollInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a working tree and push on change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchPollInterval, "poll", 0, "also push on a fixed interval, in addition to filesystem events (0 disables)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := newOutput()
	root := workingRoot(args, 0)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	w := watcher.New(root, deps)
	w.PollInterval = watchPollInterval
	w.Hooks = watcher.Hooks{
		PrePush: func(ctx context.Context, root string) error {
			out.Info("change detected, pushing...")
			return nil
		},
		PostPush: func(ctx context.Context, root string, mgr *itemstatus.Manager, pushErr error) {
			if pushErr != nil {
				out.Errorf("push failed: %v", pushErr)
				return
			}
			if mgr.Changes() == 0 {
				out.Info("nothing to push")
				return
			}
			printManager(out, mgr)
		},
	}

	out.Infof("watching %s for changes (ctrl-c to stop)", root)
	return w.Run(cmd.Context())
}
