package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/valtown/vt/internal/vtpath"
)

func ignorePath(root string) string { return filepath.Join(root, ignoreFileName) }

// LoadIgnoreRules reads .vtignore (if present) and compiles it together
// with ALWAYS_IGNORE and DEFAULT_IGNORE (spec.md §4.7).
func LoadIgnoreRules(root string) (*vtpath.Rules, error) {
	data, err := os.ReadFile(ignorePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return vtpath.CompileRules(nil), nil
		}
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	return vtpath.CompileRules(lines), nil
}

// starterIgnoreContent seeds a fresh working tree with commented defaults
// so a new clone is immediately friendly to local editor scratch files,
// per SPEC_FULL.md §C.
const starterIgnoreContent = `# vt ignore rules (gitignore syntax).
# .git, .vt and this file are always ignored and don't need to be listed here.
# node_modules
# .DS_Store
# *.log
`

// WriteStarterIgnore writes a starter .vtignore if one doesn't already
// exist. Used by clone.
func WriteStarterIgnore(root string) error {
	p := ignorePath(root)
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	return os.WriteFile(p, []byte(starterIgnoreContent), 0o644)
}
