package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/vtpath"
)

// CreateParams is the input to Create.
type CreateParams struct {
	TargetDir      string
	Name           string
	Privacy        string
	OrgID          string
	UploadExisting bool // upload files already present in TargetDir
	WriteTemplate  bool // materialize starter template files locally
}

// httpTemplate is the starter file materialized for a new val when
// WriteTemplate is set, following Val Town's http-handler convention.
const httpTemplate = `export default async function (req: Request): Promise<Response> {
  return new Response("Hello from val town!");
}
`

// Create implements spec.md §4.7's create: make a new val, then optionally
// upload files already present in the target directory and/or materialize
// editor template files.
func Create(ctx context.Context, d *Deps, p CreateParams) (remote.Val, *itemstatus.Manager, error) {
	if !p.UploadExisting {
		if err := requireEmptyOrMissing(p.TargetDir); err != nil {
			return remote.Val{}, nil, err
		}
	}

	val, err := d.Facade.CreateVal(ctx, remote.CreateValParams{Name: p.Name, Privacy: p.Privacy, OrgID: p.OrgID})
	if err != nil {
		return remote.Val{}, nil, fmt.Errorf("create val: %w", err)
	}

	branches, err := d.Facade.ListBranches(ctx, val.ID)
	if err != nil || len(branches) == 0 {
		return val, nil, fmt.Errorf("val %s was created but has no default branch", val.ID)
	}
	branch := branches[0]

	if err := os.MkdirAll(p.TargetDir, 0o755); err != nil {
		return val, nil, err
	}

	if p.WriteTemplate {
		if err := os.WriteFile(filepath.Join(p.TargetDir, "main.http.ts"), []byte(httpTemplate), 0o644); err != nil {
			return val, nil, fmt.Errorf("write template: %w", err)
		}
	}

	if p.UploadExisting {
		rules, err := ignoreRules(p.TargetDir)
		if err != nil {
			return val, nil, err
		}
		if err := uploadTree(ctx, d, val.ID, branch.ID, p.TargetDir, rules); err != nil {
			return val, nil, fmt.Errorf("val %s was created but uploading existing files failed: %w", val.ID, err)
		}
	}

	version, err := d.Facade.GetLatestVersion(ctx, val.ID, branch.ID)
	if err != nil {
		return val, nil, fmt.Errorf("val %s was created but resolving its version failed: %w", val.ID, err)
	}

	store := metadata.Open(p.TargetDir)
	if err := store.Save(metadata.Tuple{
		ValID: val.ID, OwnerUsername: val.OwnerUsername, ValName: val.Name,
		CurrentBranchID: branch.ID, BaseVersion: version,
	}); err != nil {
		return val, nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := metadata.WriteStarterIgnore(p.TargetDir); err != nil {
		return val, nil, fmt.Errorf("write starter ignore file: %w", err)
	}

	mgr, _, err := Status(ctx, d, p.TargetDir)
	if err != nil {
		return val, nil, err
	}
	return val, mgr, nil
}

// uploadTree walks root and creates each unignored entry remotely.
// filepath.WalkDir visits a directory before its entries, so each directory
// is created before its children.
func uploadTree(ctx context.Context, d *Deps, valID, branchID, root string, rules *vtpath.Rules) error {
	return filepath.WalkDir(root, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		canon := vtpath.Canonicalize(rel)
		if rules.ShouldIgnore(canon) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			_, err := d.Facade.CreateItem(ctx, valID, remote.CreateItemParams{
				Path: canon, Type: remote.ItemTypeDirectory, BranchID: branchID,
			})
			if err != nil && !remote.IsAlreadyExists(err) {
				return err
			}
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		itemType, err := vtpath.InferItemType(nil, valID, branchID, 0, canon)
		if err != nil {
			return err
		}
		_, err = d.Facade.CreateItem(ctx, valID, remote.CreateItemParams{
			Path: canon, Type: toRemoteItemType(itemType), Content: content, BranchID: branchID,
		})
		return err
	})
}
