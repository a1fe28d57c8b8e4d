package scanner

import (
	"bytes"
	"path"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/vtpath"
)

// detectWarnings attaches the stat-derived warnings of spec.md §4.4 step 5:
// binary content, invalid basename, zero length, or oversize.
func detectWarnings(p string, content []byte) []itemstatus.Warning {
	var warnings []itemstatus.Warning

	if bytes.IndexByte(content, 0) >= 0 {
		warnings = append(warnings, itemstatus.WarningBinary)
	}
	if !vtpath.ValidBasename(path.Base(p)) {
		warnings = append(warnings, itemstatus.WarningBadName)
	}
	if len(content) == 0 {
		warnings = append(warnings, itemstatus.WarningEmpty)
	}
	if len(content) > MaxFileChars {
		warnings = append(warnings, itemstatus.WarningTooLarge)
	}

	return warnings
}
