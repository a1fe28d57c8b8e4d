package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/remote/valtown"
)

func TestCheckoutSwitchesToExistingBranch(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, main := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, main.ID)

	feature, err := fake.CreateBranch(ctx, val.ID, remote.CreateBranchParams{FromBranchID: main.ID, Name: "feature"})
	if err != nil {
		t.Fatalf("create branch failed: %v", err)
	}
	fake.SeedItem(val.ID, feature.ID, "only-on-feature.ts", remote.ItemTypeScript, []byte("x"))

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: main.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	result, err := Checkout(ctx, deps, CheckoutParams{Root: dir, Branch: "feature"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.CreatedNew {
		t.Fatalf("expected switching to an existing branch to not create one")
	}
	if result.FromBranch != "main" || result.ToBranch != "feature" {
		t.Fatalf("expected from=main to=feature, got from=%s to=%s", result.FromBranch, result.ToBranch)
	}
	if _, err := os.Stat(filepath.Join(dir, "only-on-feature.ts")); err != nil {
		t.Fatalf("expected feature branch's file to be present after checkout: %v", err)
	}
}

func TestCheckoutForksNewBranch(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, main := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, main.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: main.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	result, err := Checkout(ctx, deps, CheckoutParams{Root: dir, NewBranch: "wip"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !result.CreatedNew {
		t.Fatalf("expected forking a new branch to report CreatedNew")
	}
	if result.ToBranch != "wip" {
		t.Fatalf("expected to-branch wip, got %s", result.ToBranch)
	}

	branches, err := fake.ListBranches(ctx, val.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, b := range branches {
		if b.Name == "wip" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the remote to now carry a wip branch, got %+v", branches)
	}
}

// TestCheckoutRemovesTrackedFilesAbsentOnDestination covers spec.md §8's
// checkout seed scenario verbatim: main carries a tracked file the
// destination branch never had, and the destination must win, leaving
// only its own contents plus whatever was untracked locally. The untracked
// file makes the tree dirty, so the checkout is forced.
func TestCheckoutRemovesTrackedFilesAbsentOnDestination(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, main := fake.Seed("alice", "demo")

	// Fork feature before main grows m.tsx, so feature genuinely never
	// tracked it (CreateBranch snapshots the source at fork time).
	feature, err := fake.CreateBranch(ctx, val.ID, remote.CreateBranchParams{FromBranchID: main.ID, Name: "feature"})
	if err != nil {
		t.Fatalf("create branch failed: %v", err)
	}
	fake.SeedItem(val.ID, main.ID, "m.tsx", remote.ItemTypeScript, []byte("export const m = 1;"))

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: main.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "u.tsx"), []byte("scratch"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Checkout(ctx, deps, CheckoutParams{Root: dir, Branch: "feature", Force: true})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.ToBranch != feature.Name {
		t.Fatalf("expected to switch to feature, got %s", result.ToBranch)
	}

	if _, err := os.Stat(filepath.Join(dir, "m.tsx")); !os.IsNotExist(err) {
		t.Fatalf("expected m.tsx (tracked only on main) to be removed after checkout, stat err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "u.tsx")); err != nil {
		t.Fatalf("expected the untracked file to survive checkout: %v", err)
	}

	found := false
	for _, e := range result.Changes.Entries(false) {
		if e.Path == "m.tsx" && e.Status == itemstatus.StatusDeleted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the returned manager to record m.tsx as deleted, got %+v", result.Changes.Entries(false))
	}
}

func TestCheckoutDryRunDoesNotTouchDisk(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, main := fake.Seed("alice", "demo")

	feature, err := fake.CreateBranch(ctx, val.ID, remote.CreateBranchParams{FromBranchID: main.ID, Name: "feature"})
	if err != nil {
		t.Fatalf("create branch failed: %v", err)
	}
	fake.SeedItem(val.ID, main.ID, "m.tsx", remote.ItemTypeScript, []byte("export const m = 1;"))

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: main.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	result, err := Checkout(ctx, deps, CheckoutParams{Root: dir, Branch: "feature", DryRun: true})
	if err != nil {
		t.Fatalf("dry-run checkout failed: %v", err)
	}
	if result.ToBranch != feature.Name {
		t.Fatalf("expected the dry-run result to name feature as the destination, got %s", result.ToBranch)
	}

	if _, err := os.Stat(filepath.Join(dir, "m.tsx")); err != nil {
		t.Fatalf("expected dry-run to leave m.tsx untouched on disk: %v", err)
	}

	found := false
	for _, e := range result.Changes.Entries(false) {
		if e.Path == "m.tsx" && e.Status == itemstatus.StatusDeleted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the dry-run manager to predict m.tsx's deletion, got %+v", result.Changes.Entries(false))
	}

	tuple, err := metadata.Open(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if tuple.CurrentBranchID != main.ID {
		t.Fatalf("expected dry-run to leave the metadata tuple pointed at main, got %s", tuple.CurrentBranchID)
	}
}

func TestCheckoutRefusesDirtyTreeWithoutForce(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, main := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, main.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: main.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "untracked.ts"), []byte("scratch"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Checkout(ctx, deps, CheckoutParams{Root: dir, NewBranch: "wip"}); err == nil {
		t.Fatalf("expected checkout on a dirty tree without --force to fail")
	}
}
