package itemstatus

import (
	"testing"

	"github.com/valtown/vt/internal/vtpath"
)

func matchByContent(deletions, creations []ItemStatus) []RenamePair {
	var pairs []RenamePair
	for _, d := range deletions {
		for _, c := range creations {
			if string(d.Content) == string(c.Content) {
				pairs = append(pairs, RenamePair{Deleted: d, Created: c, Similarity: 1.0})
			}
		}
	}
	return pairs
}

func TestConsolidateRenamesIsIdempotent(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "old.ts", Status: StatusDeleted, Content: []byte("same")})
	m.Insert(ItemStatus{Path: "new.ts", Status: StatusCreated, Content: []byte("same")})

	m.ConsolidateRenames(matchByContent)
	if m.Size() != 1 {
		t.Fatalf("expected the pair to consolidate into one entry, got %d", m.Size())
	}
	entry, ok := m.Get("new.ts")
	if !ok || entry.Status != StatusRenamed || entry.OldPath != "old.ts" {
		t.Fatalf("expected a renamed entry new.ts <- old.ts, got %+v ok=%v", entry, ok)
	}

	// A second pass has no deletions or creations left to pair, so it must
	// be a no-op: the renamed entry survives unchanged.
	m.ConsolidateRenames(matchByContent)
	if m.Size() != 1 {
		t.Fatalf("expected idempotent consolidation to leave size 1, got %d", m.Size())
	}
	again, ok := m.Get("new.ts")
	if !ok || again.Path != entry.Path || again.OldPath != entry.OldPath || again.Similarity != entry.Similarity {
		t.Fatalf("expected the renamed entry to be unchanged by a second pass, got %+v", again)
	}
}

func TestEntriesSortedOrdersDeepestPathsFirst(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "a.ts", Type: vtpath.TypeScript, Status: StatusCreated})
	m.Insert(ItemStatus{Path: "dir/b.ts", Type: vtpath.TypeScript, Status: StatusCreated})

	entries := m.Entries(true)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "dir/b.ts" {
		t.Fatalf("expected the deeper path first, got %q", entries[0].Path)
	}
}

func TestEntriesSortedTieBreaksByTypeThenStatus(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "b.ts", Type: vtpath.TypeScript, Status: StatusCreated})
	m.Insert(ItemStatus{Path: "a.http.ts", Type: vtpath.TypeHTTP, Status: StatusDeleted})

	entries := m.Entries(true)
	if entries[0].Type != vtpath.TypeHTTP {
		t.Fatalf("expected the http item first per type priority, got %+v", entries[0])
	}
}
