package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	vterrors "github.com/valtown/vt/internal/errors"
	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
)

// CheckoutParams is the input to Checkout.
type CheckoutParams struct {
	Root      string
	Branch    string // name of an existing branch to switch to
	NewBranch string // name of a branch to fork from the current one
	Force     bool
	DryRun    bool // spec.md §4.7: compute the manager without touching disk or the remote
}

// CheckoutResult reports what Checkout did.
type CheckoutResult struct {
	FromBranch string
	ToBranch   string
	CreatedNew bool
	Changes    *itemstatus.Manager
}

// Checkout implements spec.md §4.7's two checkout forms: switching to an
// existing branch, or forking a new one from the current branch. Both
// stage a clone and copy it over the working tree, which preserves
// untracked files because staging copies into, not over, the target — so
// Checkout additionally removes any path tracked on the old branch that
// the destination branch no longer has, the same way Pull removes paths
// that disappeared at its new base version.
func Checkout(ctx context.Context, d *Deps, p CheckoutParams) (*CheckoutResult, error) {
	store := metadata.Open(p.Root)
	tuple, err := store.Load()
	if err != nil {
		return nil, err
	}

	if !p.Force {
		current, _, err := Status(ctx, d, p.Root)
		if err != nil {
			return nil, err
		}
		if IsDirty(current) {
			return nil, vterrors.DirtyWorkingTree("checkout")
		}
	}

	branches, err := d.Facade.ListBranches(ctx, tuple.ValID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	byName := make(map[string]remote.Branch, len(branches))
	byID := make(map[string]remote.Branch, len(branches))
	for _, b := range branches {
		byName[b.Name] = b
		byID[b.ID] = b
	}

	fromBranch := tuple.CurrentBranchID
	if b, ok := byID[tuple.CurrentBranchID]; ok {
		fromBranch = b.Name
	}

	result := &CheckoutResult{FromBranch: fromBranch}

	var target remote.Branch
	switch {
	case p.NewBranch != "":
		if _, exists := byName[p.NewBranch]; exists {
			return nil, vterrors.AlreadyExists("branch", p.NewBranch)
		}
		if p.DryRun {
			// A forked branch starts as an exact copy of its source, so the
			// preview can read the source's current contents without
			// actually creating the branch server-side.
			fromVersion, err := d.Facade.GetLatestVersion(ctx, tuple.ValID, tuple.CurrentBranchID)
			if err != nil {
				return nil, fmt.Errorf("resolve latest version: %w", err)
			}
			target = remote.Branch{ID: tuple.CurrentBranchID, Name: p.NewBranch, Version: fromVersion}
			result.CreatedNew = true
			break
		}
		created, err := d.Facade.CreateBranch(ctx, tuple.ValID, remote.CreateBranchParams{
			FromBranchID: tuple.CurrentBranchID, Name: p.NewBranch,
		})
		if err != nil {
			return nil, fmt.Errorf("create branch: %w", err)
		}
		target = created
		result.CreatedNew = true
	case p.Branch != "":
		b, ok := byName[p.Branch]
		if !ok {
			return nil, vterrors.NotFound("branch", p.Branch)
		}
		target = b
	default:
		return nil, fmt.Errorf("checkout requires either an existing branch name or a new branch name")
	}

	oldItems, err := d.Facade.ListItems(ctx, tuple.ValID, tuple.CurrentBranchID, tuple.BaseVersion, true)
	if err != nil {
		return nil, fmt.Errorf("list items on current branch: %w", err)
	}

	val, err := d.Facade.RetrieveVal(ctx, tuple.ValID)
	if err != nil {
		return nil, fmt.Errorf("retrieve val: %w", err)
	}

	changes, err := Clone(ctx, d, CloneParams{
		TargetDir: p.Root, Val: val, BranchID: target.ID, Version: target.Version, DryRun: p.DryRun,
	})
	if err != nil {
		return nil, err
	}

	newItems, err := d.Facade.ListItems(ctx, tuple.ValID, target.ID, target.Version, true)
	if err != nil {
		return nil, fmt.Errorf("list items on destination branch: %w", err)
	}
	newByPath := make(map[string]bool, len(newItems))
	for _, it := range newItems {
		newByPath[it.Path] = true
	}

	var toDelete []string
	for _, old := range oldItems {
		if newByPath[old.Path] {
			continue
		}
		toDelete = append(toDelete, old.Path)
		changes.Insert(itemstatus.ItemStatus{
			Path: old.Path, Type: fromRemoteItemType(old.Type),
			Mtime: old.UpdatedAt.UnixMilli(), Status: itemstatus.StatusDeleted,
		})
	}

	if !p.DryRun {
		for _, path := range toDelete {
			if err := os.RemoveAll(filepath.Join(p.Root, filepath.FromSlash(path))); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("remove %s: %w", path, err)
			}
		}
	}

	result.ToBranch = target.Name
	result.Changes = changes
	return result, nil
}
