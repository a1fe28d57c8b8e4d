package ops

import (
	"context"
	"fmt"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/remote"
)

// RemixParams is the input to Remix.
type RemixParams struct {
	TargetDir     string
	SourceValID   string
	SourceBranch  string // branch id to remix from
	NewName       string // pre-generated unique name, e.g. "<base>_remix_12345"
	Privacy       string
	OrgID         string
}

// Remix implements spec.md §4.7's remix: create a new val owned by the
// current user (optionally under an organization), then clone the source
// val's branch into it. There is no rollback if cloning fails partway
// through — the new val is left orphaned and the caller is told so via the
// returned error wrapping the clone failure; the staging temp directory
// itself is still cleaned up by internal/atomic regardless (see
// DESIGN.md's Open Question decision on this).
func Remix(ctx context.Context, d *Deps, p RemixParams) (remote.Val, *itemstatus.Manager, error) {
	source, err := d.Facade.RetrieveVal(ctx, p.SourceValID)
	if err != nil {
		return remote.Val{}, nil, fmt.Errorf("retrieve source val: %w", err)
	}

	created, err := d.Facade.CreateVal(ctx, remote.CreateValParams{
		Name: p.NewName, Privacy: p.Privacy, Description: source.Description, OrgID: p.OrgID,
	})
	if err != nil {
		return remote.Val{}, nil, fmt.Errorf("create remix val: %w", err)
	}

	branches, err := d.Facade.ListBranches(ctx, created.ID)
	if err != nil {
		return created, nil, fmt.Errorf("val %s was created but listing its branches failed: %w", created.ID, err)
	}
	if len(branches) == 0 {
		return created, nil, fmt.Errorf("val %s was created but has no default branch", created.ID)
	}
	targetBranch := branches[0]

	version, err := d.Facade.GetLatestVersion(ctx, p.SourceValID, p.SourceBranch)
	if err != nil {
		return created, nil, fmt.Errorf("val %s was created but resolving the source version failed: %w", created.ID, err)
	}

	sourceItems, err := d.Facade.ListItems(ctx, p.SourceValID, p.SourceBranch, version, true)
	if err != nil {
		return created, nil, fmt.Errorf("val %s was created but listing source items failed: %w", created.ID, err)
	}
	for _, item := range sourceItems {
		if item.Type == remote.ItemTypeDirectory {
			if _, err := d.Facade.CreateItem(ctx, created.ID, remote.CreateItemParams{
				Path: item.Path, Type: remote.ItemTypeDirectory, BranchID: targetBranch.ID,
			}); err != nil && !remote.IsAlreadyExists(err) {
				return created, nil, fmt.Errorf("val %s was created but remixing directory %s failed: %w", created.ID, item.Path, err)
			}
			continue
		}

		content, err := d.Facade.FetchContent(ctx, p.SourceValID, item.Path, p.SourceBranch, version)
		if err != nil {
			return created, nil, fmt.Errorf("val %s was created but fetching %s failed: %w", created.ID, item.Path, err)
		}
		if _, err := d.Facade.CreateItem(ctx, created.ID, remote.CreateItemParams{
			Path: item.Path, Type: item.Type, Content: content, BranchID: targetBranch.ID,
		}); err != nil {
			return created, nil, fmt.Errorf("val %s was created but remixing %s failed: %w", created.ID, item.Path, err)
		}
	}

	mgr, err := Clone(ctx, d, CloneParams{TargetDir: p.TargetDir, Val: created, BranchID: targetBranch.ID, Version: 0})
	if err != nil {
		return created, nil, fmt.Errorf("val %s was created and items were remixed but the local clone failed: %w", created.ID, err)
	}

	return created, mgr, nil
}
