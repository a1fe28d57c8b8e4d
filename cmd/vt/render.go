package main

import (
	"fmt"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/ui"
)

// printManager renders an ItemStatusManager's entries as status-style
// lines, or as a JSON array when out is in JSON mode.
func printManager(out *ui.Output, mgr *itemstatus.Manager) {
	entries := mgr.Entries(true)

	if out.IsJSON() {
		type jsonEntry struct {
			Path       string   `json:"path"`
			Type       string   `json:"type"`
			Status     string   `json:"status"`
			Where      string   `json:"where,omitempty"`
			OldPath    string   `json:"oldPath,omitempty"`
			Similarity float64  `json:"similarity,omitempty"`
			Warnings   []string `json:"warnings,omitempty"`
		}
		rendered := make([]jsonEntry, 0, len(entries))
		for _, e := range entries {
			warnings := make([]string, len(e.Warnings))
			for i, w := range e.Warnings {
				warnings[i] = string(w)
			}
			rendered = append(rendered, jsonEntry{
				Path: e.Path, Type: string(e.Type), Status: string(e.Status),
				Where: string(e.Where), OldPath: e.OldPath, Similarity: e.Similarity, Warnings: warnings,
			})
		}
		_ = out.JSON(map[string]interface{}{"changes": rendered, "total": mgr.Changes()})
		return
	}

	for _, e := range entries {
		if e.Status == itemstatus.StatusNotModified {
			continue
		}
		marker, detail := renderEntry(e)
		out.StatusLine(marker, e.Path, detail)
	}
	if mgr.Changes() == 0 {
		out.Info("nothing to report, working tree matches remote")
	}
}

func renderEntry(e itemstatus.ItemStatus) (marker, detail string) {
	switch e.Status {
	case itemstatus.StatusCreated:
		marker = "+"
	case itemstatus.StatusDeleted:
		marker = "-"
	case itemstatus.StatusModified:
		marker, detail = "~", fmt.Sprintf("(%s)", e.Where)
	case itemstatus.StatusRenamed:
		marker, detail = "→", fmt.Sprintf("(from %s, %.0f%% similar)", e.OldPath, e.Similarity*100)
	default:
		marker = " "
	}
	for _, w := range e.Warnings {
		detail += " [" + string(w) + "]"
	}
	return marker, detail
}
