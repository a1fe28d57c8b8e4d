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

func TestCloneDryRunWritesNothingToDisk(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)

	mgr, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID, DryRun: true})
	if err != nil {
		t.Fatalf("dry-run clone failed: %v", err)
	}
	if mgr.Changes() == 0 {
		t.Fatalf("expected the dry-run manager to predict the new tree's contents")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected dry-run clone to leave %s empty, found %+v", dir, entries)
	}
}

func TestPullDryRunMatchesSubsequentRealPull(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	fake.SeedItem(val.ID, branch.ID, "new-from-remote.ts", remote.ItemTypeScript, []byte("export const y = 1;"))

	preview, err := Pull(ctx, deps, PullParams{Root: dir, DryRun: true})
	if err != nil {
		t.Fatalf("dry-run pull failed: %v", err)
	}
	entry, ok := preview.Get("new-from-remote.ts")
	if !ok || entry.Status != itemstatus.StatusCreated {
		t.Fatalf("expected the dry-run preview to predict new-from-remote.ts created, got %+v ok=%v", entry, ok)
	}
	if _, err := os.Stat(filepath.Join(dir, "new-from-remote.ts")); !os.IsNotExist(err) {
		t.Fatalf("expected dry-run pull to leave the working tree untouched, stat err: %v", err)
	}

	tupleBefore, err := metadata.Open(dir).Load()
	if err != nil {
		t.Fatal(err)
	}

	applied, err := Pull(ctx, deps, PullParams{Root: dir})
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	entry, ok = applied.Get("new-from-remote.ts")
	if !ok || entry.Status != itemstatus.StatusCreated {
		t.Fatalf("expected the real pull to apply exactly what the dry-run predicted, got %+v ok=%v", entry, ok)
	}
	if _, err := os.Stat(filepath.Join(dir, "new-from-remote.ts")); err != nil {
		t.Fatalf("expected the real pull to write new-from-remote.ts: %v", err)
	}

	tupleAfter, err := metadata.Open(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if tupleAfter.BaseVersion == tupleBefore.BaseVersion {
		t.Fatalf("expected the real pull to advance the base version past the dry-run's")
	}
}

func TestPushDryRunMatchesSubsequentRealPush(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "local-only.ts"), []byte("export const z = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	preview, err := Push(ctx, deps, PushParams{Root: dir, DryRun: true})
	if err != nil {
		t.Fatalf("dry-run push failed: %v", err)
	}
	entry, ok := preview.Get("local-only.ts")
	if !ok || entry.Status != itemstatus.StatusCreated {
		t.Fatalf("expected the dry-run preview to predict local-only.ts created, got %+v ok=%v", entry, ok)
	}

	latestBefore := mustLatestVersion(ctx, fake, val.ID, branch.ID)

	applied, err := Push(ctx, deps, PushParams{Root: dir})
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	entry, ok = applied.Get("local-only.ts")
	if !ok || entry.Status != itemstatus.StatusCreated {
		t.Fatalf("expected the real push to apply exactly what the dry-run predicted, got %+v ok=%v", entry, ok)
	}

	if mustLatestVersion(ctx, fake, val.ID, branch.ID) == latestBefore {
		t.Fatalf("expected the real push to advance the remote's latest version")
	}
	if _, err := fake.FetchContent(ctx, val.ID, "local-only.ts", branch.ID, mustLatestVersion(ctx, fake, val.ID, branch.ID)); err != nil {
		t.Fatalf("expected local-only.ts to exist on the remote after the real push: %v", err)
	}
}
