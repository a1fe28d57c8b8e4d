package vtpath

import (
	gitignore "github.com/sabhiram/go-gitignore"
)

// AlwaysIgnore are paths never pushed or pulled regardless of .vtignore.
// The .vtignore file itself is local-only, so a freshly cloned tree (which
// gets a starter .vtignore) reports no changes.
var AlwaysIgnore = []string{".git", ".vt", ".vtignore"}

// DefaultIgnore are sensible defaults merged in even with no .vtignore.
var DefaultIgnore = []string{
	"node_modules",
	".DS_Store",
	"*.log",
	".env",
	".env.local",
}

// Rules is a compiled set of gitignore-style patterns.
type Rules struct {
	matcher *gitignore.GitIgnore
	empty   bool
}

// CompileRules compiles ALWAYS_IGNORE ∪ DEFAULT_IGNORE ∪ the caller-supplied
// lines (typically the contents of .vtignore) into a single rule set. The
// combined list always holds the AlwaysIgnore and DefaultIgnore entries, so
// a compiled set is never empty; only a nil *Rules ignores nothing.
func CompileRules(extra []string) *Rules {
	lines := make([]string, 0, len(AlwaysIgnore)+len(DefaultIgnore)+len(extra))
	lines = append(lines, AlwaysIgnore...)
	lines = append(lines, DefaultIgnore...)
	lines = append(lines, extra...)
	if len(lines) == 0 {
		return &Rules{empty: true}
	}
	return &Rules{matcher: gitignore.CompileIgnoreLines(lines...)}
}

// ShouldIgnore evaluates path (POSIX-style, relative) against the rule set.
func (r *Rules) ShouldIgnore(path string) bool {
	if r == nil || r.empty || r.matcher == nil {
		return false
	}
	return r.matcher.MatchesPath(path)
}
