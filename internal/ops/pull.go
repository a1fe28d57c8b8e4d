package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valtown/vt/internal/atomic"
	vterrors "github.com/valtown/vt/internal/errors"
	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
)

// PullParams is the input to Pull.
type PullParams struct {
	Root   string
	Force  bool
	DryRun bool // spec.md §4.7: compute the manager without touching disk or the remote's mutable state
}

// Pull implements spec.md §4.7's pull: refuse on a dirty tree unless
// forced, advance the base version to latest, stage the new tree over the
// working directory (preserving untracked files, per internal/atomic),
// delete files whose remote-at-base entry disappeared, and persist the new
// base version. Returns the manager describing what changed between the
// old and new base versions. With DryRun set, it returns that same manager
// without writing, deleting, or advancing the base version.
func Pull(ctx context.Context, d *Deps, p PullParams) (*itemstatus.Manager, error) {
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
			return nil, vterrors.DirtyWorkingTree("pull")
		}
	}

	latest, err := d.Facade.GetLatestVersion(ctx, tuple.ValID, tuple.CurrentBranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve latest version: %w", err)
	}

	oldItems, err := d.Facade.ListItems(ctx, tuple.ValID, tuple.CurrentBranchID, tuple.BaseVersion, true)
	if err != nil {
		return nil, fmt.Errorf("list items at base version: %w", err)
	}
	newItems, err := d.Facade.ListItems(ctx, tuple.ValID, tuple.CurrentBranchID, latest, true)
	if err != nil {
		return nil, fmt.Errorf("list items at latest version: %w", err)
	}

	oldByPath := make(map[string]remote.Item, len(oldItems))
	for _, it := range oldItems {
		oldByPath[it.Path] = it
	}
	newByPath := make(map[string]remote.Item, len(newItems))
	for _, it := range newItems {
		newByPath[it.Path] = it
	}

	mgr, toDelete := planPull(oldByPath, newByPath)
	if p.DryRun {
		return mgr, nil
	}

	err = atomic.Stage(p.Root, "pull", func(tmp string) error {
		for path, newItem := range newByPath {
			dest := filepath.Join(tmp, filepath.FromSlash(path))

			if newItem.Type == remote.ItemTypeDirectory {
				if err := os.MkdirAll(dest, 0o755); err != nil {
					return err
				}
				continue
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}

			entry, ok := mgr.Get(path)
			if ok && entry.Status == itemstatus.StatusNotModified && !p.Force {
				continue
			}

			content, err := d.Facade.FetchContent(ctx, tuple.ValID, path, tuple.CurrentBranchID, latest)
			if err != nil {
				return fmt.Errorf("fetch content for %s: %w", path, err)
			}
			if err := os.WriteFile(dest, content, 0o644); err != nil {
				return err
			}
			if err := os.Chtimes(dest, newItem.UpdatedAt, newItem.UpdatedAt); err != nil {
				return err
			}

			mgr.Update(path, func(s itemstatus.ItemStatus) itemstatus.ItemStatus {
				s.Content = content
				return s
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, path := range toDelete {
		if err := os.RemoveAll(filepath.Join(p.Root, filepath.FromSlash(path))); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove %s: %w", path, err)
		}
	}

	if err := store.SetBaseVersion(latest); err != nil {
		return nil, fmt.Errorf("persist base version: %w", err)
	}

	return mgr, nil
}

// planPull classifies every path at the old and new base versions into an
// ItemStatusManager plus the set of paths to delete locally, without
// touching the filesystem or the remote. Pull's real apply path and its
// DryRun path both build on this so the two can never disagree about what
// would change.
func planPull(oldByPath, newByPath map[string]remote.Item) (*itemstatus.Manager, []string) {
	mgr := itemstatus.NewManager()
	var toDelete []string

	for path, oldItem := range oldByPath {
		if _, ok := newByPath[path]; ok {
			continue
		}
		toDelete = append(toDelete, path)
		mgr.Insert(itemstatus.ItemStatus{
			Path: path, Type: fromRemoteItemType(oldItem.Type),
			Mtime: oldItem.UpdatedAt.UnixMilli(), Status: itemstatus.StatusDeleted,
		})
	}

	for path, newItem := range newByPath {
		if newItem.Type == remote.ItemTypeDirectory {
			continue
		}

		oldItem, existed := oldByPath[path]
		unchanged := existed && !newItem.UpdatedAt.After(oldItem.UpdatedAt)
		if unchanged {
			mgr.Insert(itemstatus.ItemStatus{
				Path: path, Type: fromRemoteItemType(newItem.Type),
				Mtime: newItem.UpdatedAt.UnixMilli(), Status: itemstatus.StatusNotModified,
			})
			continue
		}

		status := itemstatus.StatusModified
		if !existed {
			status = itemstatus.StatusCreated
		}
		entry := itemstatus.ItemStatus{
			Path: path, Type: fromRemoteItemType(newItem.Type), Mtime: newItem.UpdatedAt.UnixMilli(),
			Status: status,
		}
		if status == itemstatus.StatusModified {
			entry.Where = itemstatus.WhereRemote
		}
		mgr.Insert(entry)
	}

	return mgr, toDelete
}
