package main

import (
	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var (
	pullForce  bool
	pullDryRun bool
)

var pullCmd = &cobra.Command{
	Use:   "pull [dir]",
	Short: "Pull the latest remote changes into the working tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPull,
}

func init() {
	pullCmd.Flags().BoolVarP(&pullForce, "force", "f", false, "pull even with local changes, discarding them")
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "show what pull would do without touching the working tree")
}

func runPull(cmd *cobra.Command, args []string) error {
	out := newOutput()
	root := workingRoot(args, 0)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	spin := out.NewSpinner("pulling")
	spin.Start()
	mgr, err := ops.Pull(cmd.Context(), deps, ops.PullParams{Root: root, Force: pullForce, DryRun: pullDryRun})
	spin.Stop()
	if err != nil {
		return err
	}

	if pullDryRun {
		printManager(out, mgr)
		return nil
	}

	out.Success("pull complete")
	printManager(out, mgr)
	return nil
}
