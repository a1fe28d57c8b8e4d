package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote/valtown"
)

func TestDoctorReportsHealthyForFreshClone(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	report := Doctor(ctx, deps, dir)
	if !report.Healthy() {
		t.Fatalf("expected a freshly cloned tree to pass every check, got %+v", report.Checks)
	}
}

func TestDoctorFlagsMissingMetadataAndStopsThere(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	deps := NewDeps(fake)
	dir := t.TempDir()

	report := Doctor(ctx, deps, dir)
	if report.Healthy() {
		t.Fatalf("expected a directory with no metadata to be unhealthy")
	}
	if len(report.Checks) != 1 || report.Checks[0].Name != "metadata" {
		t.Fatalf("expected doctor to stop after the failing metadata check, got %+v", report.Checks)
	}
}

func TestDoctorFlagsLockHeldByLiveProcess(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	lockPath := metadataLockPath(dir)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		t.Fatal(err)
	}
	// the test process's own PID is guaranteed alive, simulating a watcher
	// that's genuinely still running.
	if err := os.WriteFile(lockPath, []byte(fmt.Sprintf(`{"pid":%d}`, os.Getpid())), 0o644); err != nil {
		t.Fatal(err)
	}

	report := Doctor(ctx, deps, dir)
	if report.Healthy() {
		t.Fatalf("expected a lock held by a live process to be flagged, got %+v", report.Checks)
	}

	if _, err := RepairLock(dir); err == nil {
		t.Fatalf("expected repair to refuse a lock held by a live process")
	}
}

func TestRepairLockReclaimsDeadOwner(t *testing.T) {
	ctx := context.Background()
	fake := valtown.NewFake()
	val, branch := fake.Seed("alice", "demo")
	seedTree(fake, val.ID, branch.ID)

	dir := t.TempDir()
	deps := NewDeps(fake)
	if _, err := Clone(ctx, deps, CloneParams{TargetDir: dir, Val: val, BranchID: branch.ID}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	lockPath := metadataLockPath(dir)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		t.Fatal(err)
	}
	// a PID far outside any live process's range simulates a dead watcher's
	// leftover lock file.
	if err := os.WriteFile(lockPath, []byte(`{"pid":1073741824}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := RepairLock(dir); err != nil {
		t.Fatalf("repair failed: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Fatalf("expected the stale lock file to be gone after repair")
	}
}

func TestRepairIgnoreFileReplacesUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	ignorePath := filepath.Join(dir, ".vtignore")
	// a directory where a file is expected makes LoadIgnoreRules fail to read it.
	if err := os.MkdirAll(ignorePath, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := metadata.LoadIgnoreRules(dir); err == nil {
		t.Fatalf("expected a directory masquerading as .vtignore to fail to load")
	}

	detail, err := RepairIgnoreFile(dir)
	if err != nil {
		t.Fatalf("repair failed: %v", err)
	}
	if detail == "" {
		t.Fatalf("expected a non-empty repair detail message")
	}
	if _, err := metadata.LoadIgnoreRules(dir); err != nil {
		t.Fatalf("expected the replaced .vtignore to load cleanly, got %v", err)
	}
}
