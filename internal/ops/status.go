package ops

import (
	"context"
	"fmt"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/metadata"
)

// Status implements spec.md §4.7's status: compute the ignore rule set
// from root, load the pinned metadata tuple, and run the scanner. Status
// never touches the filesystem or the remote beyond reads, so it has no
// separate dry-run branch — every caller's "status" is already a dry run.
func Status(ctx context.Context, d *Deps, root string) (*itemstatus.Manager, metadata.Tuple, error) {
	store := metadata.Open(root)
	tuple, err := store.Load()
	if err != nil {
		return nil, metadata.Tuple{}, err
	}

	rules, err := ignoreRules(root)
	if err != nil {
		return nil, tuple, fmt.Errorf("load ignore rules: %w", err)
	}

	mgr, err := d.scannerFor(tuple.ValID, tuple.CurrentBranchID).
		Scan(ctx, root, tuple.ValID, tuple.CurrentBranchID, tuple.BaseVersion, rules)
	if err != nil {
		return nil, tuple, err
	}
	return mgr, tuple, nil
}

// IsDirty reports whether mgr contains any entry other than not_modified,
// the refusal condition pull/checkout use unless force is set (spec.md
// §4.7).
func IsDirty(mgr *itemstatus.Manager) bool {
	return mgr.Changes() > 0
}
