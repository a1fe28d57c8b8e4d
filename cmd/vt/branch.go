package main

import (
	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var branchCmd = &cobra.Command{
	Use:   "branch [dir]",
	Short: "List the branches of the current val",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBranch,
}

func runBranch(cmd *cobra.Command, args []string) error {
	out := newOutput()
	root := workingRoot(args, 0)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	branches, err := ops.ListBranchesOp(cmd.Context(), deps, root)
	if err != nil {
		return err
	}

	if out.IsJSON() {
		type jsonBranch struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Version int    `json:"version"`
			Current bool   `json:"current"`
		}
		rendered := make([]jsonBranch, len(branches))
		for i, b := range branches {
			rendered[i] = jsonBranch{ID: b.ID, Name: b.Name, Version: b.Version, Current: b.Current}
		}
		return out.JSON(map[string]interface{}{"branches": rendered})
	}

	for _, b := range branches {
		marker := "  "
		if b.Current {
			marker = "* "
		}
		out.StatusLine(marker, b.Name, "")
	}
	return nil
}
