package ops

import (
	"context"
	"fmt"
	"sort"

	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
)

// BranchInfo augments a remote.Branch with whether it's the working tree's
// current branch, for the supplemented `vt branch` listing (SPEC_FULL.md
// §C).
type BranchInfo struct {
	remote.Branch
	Current bool
}

// ListBranchesOp lists every branch of the val pinned at root, marking the
// current one. The current branch comes first; the rest follow by
// UpdatedAt, newest first.
func ListBranchesOp(ctx context.Context, d *Deps, root string) ([]BranchInfo, error) {
	store := metadata.Open(root)
	tuple, err := store.Load()
	if err != nil {
		return nil, err
	}

	branches, err := d.Facade.ListBranches(ctx, tuple.ValID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	out := make([]BranchInfo, len(branches))
	for i, b := range branches {
		out[i] = BranchInfo{Branch: b, Current: b.ID == tuple.CurrentBranchID}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Current != out[j].Current {
			return out[i].Current
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
