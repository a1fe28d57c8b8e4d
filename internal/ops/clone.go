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
	"github.com/valtown/vt/internal/vtpath"
)

// CloneParams is the input to Clone.
type CloneParams struct {
	TargetDir string
	Val       remote.Val
	BranchID  string
	Version   int  // 0 means "latest": resolved before staging
	DryRun    bool // spec.md §4.7: compute the manager without touching disk
}

// Clone implements spec.md §4.7's clone: stage into a temp directory, list
// remote items at version, write file content or create directories, set
// mtimes from the remote, then pin the metadata tuple. Returns an
// ItemStatusManager with every path marked created. With DryRun set, it
// returns that same manager without staging, writing metadata, or fetching
// any file content (every entry would be created, so no comparison needs it).
func Clone(ctx context.Context, d *Deps, p CloneParams) (*itemstatus.Manager, error) {
	version := p.Version
	if version == 0 {
		v, err := d.Facade.GetLatestVersion(ctx, p.Val.ID, p.BranchID)
		if err != nil {
			return nil, fmt.Errorf("resolve latest version: %w", err)
		}
		version = v
	}

	items, err := d.Facade.ListItems(ctx, p.Val.ID, p.BranchID, version, true)
	if err != nil {
		return nil, fmt.Errorf("list remote items: %w", err)
	}

	if p.DryRun {
		mgr := itemstatus.NewManager()
		for _, item := range items {
			itemType := fromRemoteItemType(item.Type)
			if item.Type == remote.ItemTypeDirectory {
				itemType = vtpath.TypeDirectory
			}
			mgr.Insert(itemstatus.ItemStatus{
				Path: item.Path, Type: itemType,
				Mtime: item.UpdatedAt.UnixMilli(), Status: itemstatus.StatusCreated,
			})
		}
		return mgr, nil
	}

	mgr := itemstatus.NewManager()

	err = atomic.Stage(p.TargetDir, "clone", func(tmp string) error {
		for _, item := range items {
			dest := filepath.Join(tmp, filepath.FromSlash(item.Path))

			if item.Type == remote.ItemTypeDirectory {
				if err := os.MkdirAll(dest, 0o755); err != nil {
					return err
				}
				mgr.Insert(itemstatus.ItemStatus{
					Path: item.Path, Type: vtpath.TypeDirectory,
					Mtime: item.UpdatedAt.UnixMilli(), Status: itemstatus.StatusCreated,
				})
				continue
			}

			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}

			content, err := d.Facade.FetchContent(ctx, p.Val.ID, item.Path, p.BranchID, version)
			if err != nil {
				return fmt.Errorf("fetch content for %s: %w", item.Path, err)
			}
			if err := os.WriteFile(dest, content, 0o644); err != nil {
				return err
			}
			if err := os.Chtimes(dest, item.UpdatedAt, item.UpdatedAt); err != nil {
				return err
			}

			mgr.Insert(itemstatus.ItemStatus{
				Path: item.Path, Type: fromRemoteItemType(item.Type), Mtime: item.UpdatedAt.UnixMilli(),
				Content: content, Status: itemstatus.StatusCreated,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	store := metadata.Open(p.TargetDir)
	if err := store.Save(metadata.Tuple{
		ValID:           p.Val.ID,
		OwnerUsername:   p.Val.OwnerUsername,
		ValName:         p.Val.Name,
		CurrentBranchID: p.BranchID,
		BaseVersion:     version,
	}); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := metadata.WriteStarterIgnore(p.TargetDir); err != nil {
		return nil, fmt.Errorf("write starter ignore file: %w", err)
	}

	return mgr, nil
}

// requireEmptyOrMissing returns DirectoryNotEmpty when targetDir holds any
// entry other than .vt or .git; a missing directory passes. Create calls
// it; Clone does not check its target directory.
func requireEmptyOrMissing(targetDir string) error {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.Name() == ".vt" || e.Name() == ".git" {
			continue
		}
		return vterrors.DirectoryNotEmpty(targetDir)
	}
	return nil
}
