package metadata

import (
	"os"
	"testing"

	vterrors "github.com/valtown/vt/internal/errors"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	root := t.TempDir()
	store := Open(root)

	tuple := Tuple{ValID: "v1", OwnerUsername: "alice", ValName: "demo", CurrentBranchID: "b1", BaseVersion: 3}
	if err := store.Save(tuple); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tuple {
		t.Fatalf("got %+v, want %+v", got, tuple)
	}
}

func TestLoadMissingStateIsNotFound(t *testing.T) {
	root := t.TempDir()
	_, err := Open(root).Load()
	if !vterrors.Is(err, vterrors.KindNotFound) {
		t.Fatalf("expected a NotFound error, got %v", err)
	}
}

func TestExistsReflectsSave(t *testing.T) {
	root := t.TempDir()
	store := Open(root)
	if store.Exists() {
		t.Fatalf("expected a fresh directory to report not-yet-initialized")
	}
	if err := store.Save(Tuple{ValID: "v1"}); err != nil {
		t.Fatal(err)
	}
	if !store.Exists() {
		t.Fatalf("expected Exists to be true after Save")
	}
}

func TestSetBaseVersionUpdatesOnlyThatField(t *testing.T) {
	root := t.TempDir()
	store := Open(root)
	if err := store.Save(Tuple{ValID: "v1", CurrentBranchID: "b1", BaseVersion: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetBaseVersion(42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseVersion != 42 || got.CurrentBranchID != "b1" {
		t.Fatalf("got %+v", got)
	}
}

func TestSetBranchUpdatesBranchAndVersion(t *testing.T) {
	root := t.TempDir()
	store := Open(root)
	if err := store.Save(Tuple{ValID: "v1", CurrentBranchID: "b1", BaseVersion: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetBranch("b2", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentBranchID != "b2" || got.BaseVersion != 7 {
		t.Fatalf("got %+v", got)
	}
}

func TestLoadCorruptStateIsConfigInvalid(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Open(root).statePath(), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(root).Load()
	if !vterrors.Is(err, vterrors.KindConfigInvalid) {
		t.Fatalf("expected a ConfigInvalid error, got %v", err)
	}
}
