package main

import (
	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var statusVerbose bool

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show pending local and remote changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusVerbose, "verbose", false, "print remote call metrics alongside the change set")
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := newOutput()
	root := workingRoot(args, 0)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	mgr, _, err := ops.Status(cmd.Context(), deps, root)
	if err != nil {
		return err
	}

	printManager(out, mgr)
	if statusVerbose && !out.IsJSON() {
		out.Info(deps.Metrics.Report())
	}
	return nil
}
