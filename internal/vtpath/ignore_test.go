package vtpath

import "testing"

func TestCompileRulesIgnoresAlwaysAndDefaultSets(t *testing.T) {
	r := CompileRules(nil)
	if !r.ShouldIgnore(".git") {
		t.Fatalf("expected .git to be always ignored")
	}
	if !r.ShouldIgnore(".vt") {
		t.Fatalf("expected .vt to be always ignored")
	}
	if !r.ShouldIgnore("node_modules") {
		t.Fatalf("expected node_modules to be ignored by default")
	}
	if r.ShouldIgnore("main.ts") {
		t.Fatalf("did not expect main.ts to be ignored")
	}
}

func TestCompileRulesMergesCallerLines(t *testing.T) {
	r := CompileRules([]string{"*.secret"})
	if !r.ShouldIgnore("keys.secret") {
		t.Fatalf("expected caller-supplied pattern to apply")
	}
}

func TestEmptyRulesNeverIgnore(t *testing.T) {
	// CompileRules always merges in AlwaysIgnore/DefaultIgnore, so the only
	// way to hit the "empty" fast path is the nil receiver / zero value.
	var r *Rules
	if r.ShouldIgnore("anything") {
		t.Fatalf("a nil Rules should never ignore")
	}
}
