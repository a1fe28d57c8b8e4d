package main

import (
	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var pushDryRun bool

var pushCmd = &cobra.Command{
	Use:   "push [dir]",
	Short: "Push local changes to the remote val",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "show what push would do without changing the remote")
}

func runPush(cmd *cobra.Command, args []string) error {
	out := newOutput()
	root := workingRoot(args, 0)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	spin := out.NewSpinner("pushing")
	spin.Start()
	mgr, err := ops.Push(cmd.Context(), deps, ops.PushParams{Root: root, DryRun: pushDryRun})
	spin.Stop()
	if err != nil {
		return err
	}

	if pushDryRun {
		printManager(out, mgr)
		return nil
	}

	failed := 0
	for _, e := range mgr.Entries(false) {
		for _, w := range e.Warnings {
			if w.IsUnknown() {
				failed++
				break
			}
		}
	}

	printManager(out, mgr)
	if failed > 0 {
		out.Warningf("%d item(s) failed to push; see warnings above", failed)
	} else {
		out.Success("push complete")
	}
	return nil
}
