package scanner

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/valtown/vt/internal/vtpath"
)

// localEntry is one local tree entry before classification: content is
// deliberately not read here (spec.md §4.4 step 1, "defer content read
// until needed").
type localEntry struct {
	Path  string // canonical POSIX-style, relative to root
	Mtime int64  // ms since epoch
	IsDir bool
}

// walkLocal walks root, skipping entries matched by rules, and returns a
// flat list of local entries.
func walkLocal(root string, rules *vtpath.Rules) ([]localEntry, error) {
	var out []localEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		canon := vtpath.Canonicalize(rel)

		if rules.ShouldIgnore(canon) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		out = append(out, localEntry{
			Path:  canon,
			Mtime: info.ModTime().UnixMilli(),
			IsDir: d.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func readFile(root, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
}
