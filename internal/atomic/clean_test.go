package atomic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/valtown/vt/internal/vtpath"
)

func TestCleanDirectoryRemovesUnmatchedEntries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"keep.ts", "drop.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rules := vtpath.CompileRules([]string{"keep.ts"})
	if err := CleanDirectory(dir, rules); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "keep.ts")); err != nil {
		t.Fatalf("expected keep.ts (ignored by rules) to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "drop.log")); !os.IsNotExist(err) {
		t.Fatalf("expected drop.log to be removed")
	}
}

func TestCleanDirectoryMissingDirIsNoop(t *testing.T) {
	rules := vtpath.CompileRules(nil)
	if err := CleanDirectory(filepath.Join(t.TempDir(), "does-not-exist"), rules); err != nil {
		t.Fatalf("expected a missing directory to be a no-op, got %v", err)
	}
}
