package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/remote/valtown"
)

func TestRemixCopiesSourceItemsIntoNewVal(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	source, branch := fake.Seed("alice", "demo")
	seedTree(fake, source.ID, branch.ID)
	fake.SeedItem(source.ID, branch.ID, "lib/helper.ts", remote.ItemTypeScript, []byte("export const h = 1;"))

	dir := t.TempDir()
	deps := NewDeps(fake)

	remixed, mgr, err := Remix(ctx, deps, RemixParams{
		TargetDir: dir, SourceValID: source.ID, SourceBranch: branch.ID,
		NewName: "demo_remix_1", Privacy: "public",
	})
	if err != nil {
		t.Fatalf("remix failed: %v", err)
	}
	if remixed.Name != "demo_remix_1" {
		t.Fatalf("expected the remix to carry its requested name, got %q", remixed.Name)
	}
	if remixed.ID == source.ID {
		t.Fatalf("expected the remix to be a distinct val from its source")
	}
	if mgr.Changes() != 3 {
		t.Fatalf("expected the remixed clone to report its 3 items as created, got %+v", mgr.Entries(true))
	}

	for _, p := range []string{"main.http.ts", "utils.ts", "lib/helper.ts"} {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Fatalf("expected remixed file %s to be cloned locally: %v", p, err)
		}
	}

	got, err := fake.FetchContent(ctx, remixed.ID, "lib/helper.ts", fake.MainBranch(remixed.ID).ID, mustLatestVersion(ctx, fake, remixed.ID, fake.MainBranch(remixed.ID).ID))
	if err != nil {
		t.Fatalf("fetch remixed content failed: %v", err)
	}
	if string(got) != "export const h = 1;" {
		t.Fatalf("expected remixed content to match the source, got %q", got)
	}
}

func TestRemixFailsWhenSourceValMissing(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	deps := NewDeps(fake)
	dir := t.TempDir()

	if _, _, err := Remix(ctx, deps, RemixParams{TargetDir: dir, SourceValID: "val_nonexistent", SourceBranch: "branch_nonexistent", NewName: "x"}); err == nil {
		t.Fatalf("expected remix to fail when the source val does not exist")
	}
}
