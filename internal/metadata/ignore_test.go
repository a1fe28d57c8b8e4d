package metadata

import (
	"os"
	"testing"
)

func TestLoadIgnoreRulesWithNoFileUsesDefaults(t *testing.T) {
	root := t.TempDir()
	rules, err := LoadIgnoreRules(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rules.ShouldIgnore("node_modules") {
		t.Fatalf("expected default ignores to apply even without a .vtignore")
	}
}

func TestLoadIgnoreRulesMergesFileContent(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(ignorePath(root), []byte("dist/\n*.tmp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err := LoadIgnoreRules(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rules.ShouldIgnore("dist/out.js") {
		t.Fatalf("expected .vtignore's dist/ pattern to apply")
	}
	if !rules.ShouldIgnore("scratch.tmp") {
		t.Fatalf("expected .vtignore's *.tmp pattern to apply")
	}
}

func TestWriteStarterIgnoreDoesNotOverwriteExisting(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(ignorePath(root), []byte("custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteStarterIgnore(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(ignorePath(root))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "custom\n" {
		t.Fatalf("expected existing .vtignore to be preserved, got %q", got)
	}
}
