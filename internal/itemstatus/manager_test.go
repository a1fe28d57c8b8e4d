package itemstatus

import "testing"

func TestInsertCollapsesCreatedAfterDeleted(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusDeleted})
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusCreated, Content: []byte("x")})

	entry, ok := m.Get("a.ts")
	if !ok {
		t.Fatalf("expected entry at a.ts")
	}
	if entry.Status != StatusModified || entry.Where != WhereLocal {
		t.Fatalf("expected modified{local}, got %+v", entry)
	}
	if m.Size() != 1 {
		t.Fatalf("expected a single bucket entry, got %d", m.Size())
	}
}

func TestInsertCollapsesDeletedAfterCreated(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusCreated, Content: []byte("x")})
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusDeleted})

	entry, ok := m.Get("a.ts")
	if !ok {
		t.Fatalf("expected entry at a.ts")
	}
	if entry.Status != StatusModified || entry.Where != WhereLocal {
		t.Fatalf("expected modified{local}, got %+v", entry)
	}
}

func TestInsertRenamedRemovesBothEndpoints(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "old.ts", Status: StatusDeleted})
	m.Insert(ItemStatus{Path: "new.ts", Status: StatusCreated})
	m.Insert(ItemStatus{Path: "new.ts", OldPath: "old.ts", Status: StatusRenamed, Similarity: 0.9})

	if m.Has("old.ts") {
		t.Fatalf("old path should have been removed from every bucket")
	}
	entry, ok := m.Get("new.ts")
	if !ok || entry.Status != StatusRenamed {
		t.Fatalf("expected renamed entry at new.ts, got %+v ok=%v", entry, ok)
	}
}

func TestPathLivesInExactlyOneBucket(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusCreated})
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusNotModified})

	count := 0
	for _, e := range m.entriesUnsorted() {
		if e.Path == "a.ts" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry for a.ts across all buckets, found %d", count)
	}
}

func TestChangesExcludesNotModified(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusNotModified})
	m.Insert(ItemStatus{Path: "b.ts", Status: StatusCreated})

	if m.Size() != 2 {
		t.Fatalf("expected size 2, got %d", m.Size())
	}
	if m.Changes() != 1 {
		t.Fatalf("expected 1 change, got %d", m.Changes())
	}
}

func TestFilterDropsEntriesFailingPredicate(t *testing.T) {
	m := NewManager()
	m.Insert(ItemStatus{Path: "a.ts", Status: StatusCreated, Warnings: []Warning{WarningTooLarge}})
	m.Insert(ItemStatus{Path: "b.ts", Status: StatusCreated})

	filtered := m.Filter(func(s ItemStatus) bool { return !s.HasBlockingWarning() })
	if filtered.Has("a.ts") {
		t.Fatalf("expected a.ts filtered out")
	}
	if !filtered.Has("b.ts") {
		t.Fatalf("expected b.ts to survive the filter")
	}
}

func TestUpdateNoopsOnMissingPath(t *testing.T) {
	m := NewManager()
	m.Update("missing.ts", func(s ItemStatus) ItemStatus {
		t.Fatalf("patch should not be called for a missing path")
		return s
	})
	if m.Size() != 0 {
		t.Fatalf("expected manager to remain empty")
	}
}

func TestWarningIsUnknown(t *testing.T) {
	if WarningBinary.IsUnknown() {
		t.Fatalf("binary warning should not be unknown")
	}
	if !UnknownWarning("boom").IsUnknown() {
		t.Fatalf("UnknownWarning result should report IsUnknown")
	}
}
