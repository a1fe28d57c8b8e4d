package ops

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/vtpath"
)

// maxConcurrentPushes bounds the fan-out of non-directory push calls
// (spec.md §5: "non-directory creations/modifications/deletions/renames
// are dispatched concurrently and joined").
const maxConcurrentPushes = 8

// PushParams is the input to Push.
type PushParams struct {
	Root   string
	DryRun bool // spec.md §4.7: compute the manager without touching the remote
}

// Push implements spec.md §4.7's push. It is deliberately non-atomic:
// every remote call is independently meaningful, and a failed call attaches
// an "unknown: <msg>" warning to its item rather than aborting the rest.
// With DryRun set, it returns the Status-computed manager before any of
// those remote calls are made.
func Push(ctx context.Context, d *Deps, p PushParams) (*itemstatus.Manager, error) {
	mgr, tuple, err := Status(ctx, d, p.Root)
	if err != nil {
		return nil, err
	}
	if p.DryRun {
		return mgr, nil
	}

	uploadable := mgr.Filter(func(s itemstatus.ItemStatus) bool { return !s.HasBlockingWarning() })

	failedDirs := ensureParentDirectories(ctx, d, mgr, uploadable, tuple.ValID, tuple.CurrentBranchID)

	pathToID, err := currentPathIndex(ctx, d, tuple.ValID, tuple.CurrentBranchID, tuple.BaseVersion)
	if err != nil {
		return nil, fmt.Errorf("index remote paths: %w", err)
	}

	// Renames run to completion first (they free up the old path before any
	// same-path creation lands), then creations/modifications/deletions are
	// dispatched together and joined — spec.md §5's ordering guarantee.
	var mu sync.Mutex
	locked := func(fn func()) { mu.Lock(); defer mu.Unlock(); fn() }

	renameGroup, renameCtx := errgroup.WithContext(ctx)
	renameGroup.SetLimit(maxConcurrentPushes)
	for _, entry := range uploadable.Entries(true) {
		if entry.Status != itemstatus.StatusRenamed {
			continue
		}
		entry := entry
		if underAny(entry.Path, failedDirs) {
			locked(func() { attachFailure(mgr, entry.Path, fmt.Errorf("parent directory failed to create")) })
			continue
		}
		renameGroup.Go(func() error {
			pushRenamed(renameCtx, d, mgr, &mu, tuple, pathToID, entry)
			return nil
		})
	}
	_ = renameGroup.Wait()

	restGroup, restCtx := errgroup.WithContext(ctx)
	restGroup.SetLimit(maxConcurrentPushes)
	for _, entry := range uploadable.Entries(true) {
		entry := entry
		if entry.Status == itemstatus.StatusRenamed {
			continue
		}
		if underAny(entry.Path, failedDirs) {
			locked(func() { attachFailure(mgr, entry.Path, fmt.Errorf("parent directory failed to create")) })
			continue
		}

		switch entry.Status {
		case itemstatus.StatusCreated:
			if entry.Type == vtpath.TypeDirectory {
				continue // directories are handled by ensureParentDirectories
			}
			restGroup.Go(func() error { pushCreated(restCtx, d, mgr, &mu, tuple, entry); return nil })
		case itemstatus.StatusModified:
			if entry.Where == itemstatus.WhereLocal {
				restGroup.Go(func() error { pushModified(restCtx, d, mgr, &mu, tuple, entry); return nil })
			}
		case itemstatus.StatusDeleted:
			restGroup.Go(func() error { pushDeleted(restCtx, d, mgr, &mu, tuple, entry); return nil })
		}
	}
	_ = restGroup.Wait()

	latest, err := d.Facade.GetLatestVersion(ctx, tuple.ValID, tuple.CurrentBranchID)
	if err != nil {
		return mgr, fmt.Errorf("resolve latest version after push: %w", err)
	}
	store := metadata.Open(p.Root)
	if err := store.SetBaseVersion(latest); err != nil {
		return mgr, fmt.Errorf("persist base version: %w", err)
	}

	return mgr, nil
}

func attachFailure(mgr *itemstatus.Manager, itemPath string, err error) {
	mgr.Update(itemPath, func(s itemstatus.ItemStatus) itemstatus.ItemStatus {
		s.Warnings = append(s.Warnings, itemstatus.UnknownWarning(err.Error()))
		return s
	})
}

func underAny(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// ensureParentDirectories creates, top-down, every ancestor directory an
// uploadable entry needs plus any directory-type creations themselves,
// ignoring AlreadyExists (spec.md §4.7 step 1). It returns the set of
// directory paths that failed to create, so dependent entries can be
// skipped with an attached warning.
func ensureParentDirectories(ctx context.Context, d *Deps, mgr, uploadable *itemstatus.Manager, valID, branchID string) []string {
	needed := map[string]bool{}
	for _, entry := range uploadable.Entries(false) {
		switch entry.Status {
		case itemstatus.StatusCreated, itemstatus.StatusModified, itemstatus.StatusRenamed:
			if entry.Type == vtpath.TypeDirectory {
				needed[entry.Path] = true
			}
			for _, dir := range ancestors(entry.Path) {
				needed[dir] = true
			}
		}
	}

	dirs := make([]string, 0, len(needed))
	for dir := range needed {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], "/") < strings.Count(dirs[j], "/")
	})

	var failed []string
	for _, dir := range dirs {
		if underAny(dir, failed) {
			failed = append(failed, dir)
			continue
		}
		_, err := d.Facade.CreateItem(ctx, valID, remote.CreateItemParams{
			Path: dir, Type: remote.ItemTypeDirectory, BranchID: branchID,
		})
		if err != nil && !remote.IsAlreadyExists(err) {
			failed = append(failed, dir)
			attachFailure(mgr, dir, err)
		}
	}
	return failed
}

// ancestors returns every proper ancestor directory of p, root-first.
func ancestors(p string) []string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	parts := strings.Split(dir, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "/"))
	}
	return out
}

// currentPathIndex maps every remote path to its item id, used to resolve
// a rename's new parent directory.
func currentPathIndex(ctx context.Context, d *Deps, valID, branchID string, version int) (map[string]string, error) {
	items, err := d.Facade.ListItems(ctx, valID, branchID, version, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.Path] = it.ID
	}
	return out, nil
}

func pushRenamed(ctx context.Context, d *Deps, mgr *itemstatus.Manager, mu *sync.Mutex, tuple metadata.Tuple, pathToID map[string]string, entry itemstatus.ItemStatus) {
	newParentMove := remote.KeepParent()
	newDir := path.Dir(entry.Path)
	if newDir == "." || newDir == "" {
		newParentMove = remote.MoveToRoot()
	} else if id, ok := pathToID[newDir]; ok {
		newParentMove = remote.MoveToParent(id)
	}

	newName := path.Base(entry.Path)
	_, err := d.Facade.UpdateItem(ctx, tuple.ValID, remote.UpdateItemParams{
		Path:        entry.OldPath,
		NewName:     &newName,
		NewParentID: newParentMove,
		BranchID:    tuple.CurrentBranchID,
	})
	if err != nil {
		mu.Lock()
		attachFailure(mgr, entry.Path, err)
		mu.Unlock()
	}
}

func pushCreated(ctx context.Context, d *Deps, mgr *itemstatus.Manager, mu *sync.Mutex, tuple metadata.Tuple, entry itemstatus.ItemStatus) {
	_, err := d.Facade.CreateItem(ctx, tuple.ValID, remote.CreateItemParams{
		Path: entry.Path, Type: toRemoteItemType(entry.Type), Content: entry.Content, BranchID: tuple.CurrentBranchID,
	})
	if err != nil {
		mu.Lock()
		attachFailure(mgr, entry.Path, err)
		mu.Unlock()
	}
}

func pushModified(ctx context.Context, d *Deps, mgr *itemstatus.Manager, mu *sync.Mutex, tuple metadata.Tuple, entry itemstatus.ItemStatus) {
	_, err := d.Facade.UpdateItem(ctx, tuple.ValID, remote.UpdateItemParams{
		Path: entry.Path, Content: entry.Content, BranchID: tuple.CurrentBranchID,
	})
	if err != nil {
		mu.Lock()
		attachFailure(mgr, entry.Path, err)
		mu.Unlock()
	}
}

func pushDeleted(ctx context.Context, d *Deps, mgr *itemstatus.Manager, mu *sync.Mutex, tuple metadata.Tuple, entry itemstatus.ItemStatus) {
	err := d.Facade.DeleteItem(ctx, tuple.ValID, remote.DeleteItemParams{
		Path: entry.Path, BranchID: tuple.CurrentBranchID, Recursive: true,
	})
	// A 404 means the path is already gone remotely, which is the goal.
	if err != nil && !remote.IsNotFound(err) {
		mu.Lock()
		attachFailure(mgr, entry.Path, err)
		mu.Unlock()
	}
}
