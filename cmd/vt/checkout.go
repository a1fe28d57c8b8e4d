package main

import (
	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var (
	checkoutNewBranch string
	checkoutForce     bool
	checkoutDryRun    bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout [branch] [dir]",
	Short: "Switch to a branch, or fork a new one with -b",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runCheckout,
}

func init() {
	checkoutCmd.Flags().StringVarP(&checkoutNewBranch, "branch", "b", "", "create and switch to a new branch forked from the current one")
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "checkout even with local changes, discarding them")
	checkoutCmd.Flags().BoolVar(&checkoutDryRun, "dry-run", false, "show what checkout would do without switching branches")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	out := newOutput()

	var branch string
	if checkoutNewBranch == "" {
		if len(args) == 0 {
			return usageErrorf("checkout requires a branch name, or -b <name> to create one")
		}
		branch = args[0]
	}

	dirIdx := 1
	if checkoutNewBranch != "" {
		dirIdx = 0
	}
	root := workingRoot(args, dirIdx)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	spin := out.NewSpinner("checking out")
	spin.Start()
	result, err := ops.Checkout(cmd.Context(), deps, ops.CheckoutParams{
		Root: root, Branch: branch, NewBranch: checkoutNewBranch, Force: checkoutForce, DryRun: checkoutDryRun,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	if checkoutDryRun {
		printManager(out, result.Changes)
		return nil
	}

	if result.CreatedNew {
		out.Successf("created and switched to branch %s (from %s)", result.ToBranch, result.FromBranch)
	} else {
		out.Successf("switched to branch %s (from %s)", result.ToBranch, result.FromBranch)
	}
	printManager(out, result.Changes)
	return nil
}
