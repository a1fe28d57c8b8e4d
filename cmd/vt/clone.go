package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var cloneDryRun bool

var cloneCmd = &cobra.Command{
	Use:   "clone <val-uri> [dir] [branch]",
	Short: "Clone a val into a local directory",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runClone,
}

func init() {
	cloneCmd.Flags().BoolVar(&cloneDryRun, "dry-run", false, "show what clone would do without writing to disk")
}

func runClone(cmd *cobra.Command, args []string) error {
	out := newOutput()
	owner, name, err := parseValURI(args[0])
	if err != nil {
		return err
	}

	dir := name
	if len(args) > 1 && args[1] != "" {
		dir = args[1]
	}
	branchName := ""
	if len(args) > 2 {
		branchName = args[2]
	}

	deps, err := newDeps(dir)
	if err != nil {
		return err
	}

	spin := out.NewSpinner("cloning " + owner + "/" + name)
	spin.Start()

	ctx := cmd.Context()
	val, err := deps.Facade.ResolveVal(ctx, owner, name)
	if err != nil {
		spin.Fail()
		return err
	}

	branchID, err := resolveBranchID(ctx, deps, val.ID, branchName)
	if err != nil {
		spin.Fail()
		return err
	}

	mgr, err := ops.Clone(ctx, deps, ops.CloneParams{TargetDir: dir, Val: val, BranchID: branchID, DryRun: cloneDryRun})
	spin.Stop()
	if err != nil {
		return err
	}

	if cloneDryRun {
		printManager(out, mgr)
		return nil
	}

	out.Successf("cloned %s/%s into %s", owner, name, dir)
	printManager(out, mgr)
	return nil
}

// resolveBranchID resolves an optional branch name to its id, defaulting
// to "main" when name is empty.
func resolveBranchID(ctx context.Context, deps *ops.Deps, valID, name string) (string, error) {
	branches, err := deps.Facade.ListBranches(ctx, valID)
	if err != nil {
		return "", fmt.Errorf("list branches: %w", err)
	}
	want := name
	if want == "" {
		want = "main"
	}
	for _, b := range branches {
		if b.Name == want {
			return b.ID, nil
		}
	}
	if name == "" && len(branches) > 0 {
		return branches[0].ID, nil
	}
	return "", fmt.Errorf("branch %q not found", want)
}
