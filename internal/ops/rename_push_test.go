package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/remote/valtown"
)

func TestCloneRenamePushStatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	oldPath := filepath.Join(dir, "utils.ts")
	newPath := filepath.Join(dir, "helpers.ts")
	content, err := os.ReadFile(oldPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	future := futureLocalTime()
	if err := os.Chtimes(newPath, future, future); err != nil {
		t.Fatal(err)
	}

	mgr, err := Push(ctx, deps, PushParams{Root: dir})
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	entry, ok := mgr.Get("helpers.ts")
	if !ok || entry.Status != itemstatus.StatusRenamed || entry.OldPath != "utils.ts" {
		t.Fatalf("expected push to report a rename from utils.ts to helpers.ts, got %+v ok=%v", entry, ok)
	}

	after, _, err := Status(ctx, deps, dir)
	if err != nil {
		t.Fatalf("status after push failed: %v", err)
	}
	if after.Changes() != 0 {
		t.Fatalf("expected no changes after a successful rename push, got %+v", after.Entries(true))
	}

	latest := mustLatestVersion(ctx, fake, val.ID, branch.ID)
	items, err := fake.ListItems(ctx, val.ID, branch.ID, latest, true)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, it := range items {
		paths = append(paths, it.Path)
	}
	found, stillOld := false, false
	for _, p := range paths {
		if p == "helpers.ts" {
			found = true
		}
		if p == "utils.ts" {
			stillOld = true
		}
	}
	if !found || stillOld {
		t.Fatalf("expected the remote tree to show helpers.ts and not utils.ts, got %v", paths)
	}

	got, err := fake.FetchContent(ctx, val.ID, "helpers.ts", branch.ID, latest)
	if err != nil {
		t.Fatalf("fetch renamed content failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected the renamed remote item's content to be unchanged, got %q", got)
	}
}
