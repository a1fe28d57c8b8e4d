// Package vtpath implements the path & ignore layer (spec.md §4.1): turning
// arbitrary local paths into canonical POSIX-style relative paths,
// evaluating gitignore-style ignore rules, and inferring a val item's type
// from its filename and prior remote history.
package vtpath

import "strings"

// Canonicalize converts a path to POSIX-style, forward-slash form. It
// rewrites Windows drive-absolute paths ("C:\foo" or "C:/foo") to a root-
// relative path by dropping the drive letter, preserves UNC-style doubled
// leading slashes, and leaves "." and ".." segments untouched — callers
// that need a cleaned path should filepath.Clean before canonicalizing.
func Canonicalize(relPath string) string {
	p := strings.ReplaceAll(relPath, `\`, "/")

	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		p = p[2:]
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
	}

	// Preserve a UNC-style doubled prefix ("//host/share") and collapse any
	// longer run of leading slashes down to two.
	if strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "///") {
		return "//" + strings.TrimLeft(p[2:], "/")
	}
	for strings.HasPrefix(p, "///") {
		p = p[1:]
	}
	return p
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
