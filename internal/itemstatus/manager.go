package itemstatus

// Manager is five maps keyed by path, one per StatusKind, rather than a
// single polymorphic map — external consumers only see the aggregated,
// read-only view through Entries/Get/Has (spec.md §9 "duck-typed
// collection of statuses").
type Manager struct {
	created     map[string]ItemStatus
	deleted     map[string]ItemStatus
	modified    map[string]ItemStatus
	notModified map[string]ItemStatus
	renamed     map[string]ItemStatus
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		created:     make(map[string]ItemStatus),
		deleted:     make(map[string]ItemStatus),
		modified:    make(map[string]ItemStatus),
		notModified: make(map[string]ItemStatus),
		renamed:     make(map[string]ItemStatus),
	}
}

func (m *Manager) bucket(kind StatusKind) map[string]ItemStatus {
	switch kind {
	case StatusCreated:
		return m.created
	case StatusDeleted:
		return m.deleted
	case StatusModified:
		return m.modified
	case StatusNotModified:
		return m.notModified
	case StatusRenamed:
		return m.renamed
	default:
		panic("itemstatus: unknown status kind " + string(kind))
	}
}

// removeFromAll removes path from every bucket, used before re-inserting
// under a (possibly different) status so a path is never in two buckets
// at once.
func (m *Manager) removeFromAll(path string) {
	delete(m.created, path)
	delete(m.deleted, path)
	delete(m.modified, path)
	delete(m.notModified, path)
	delete(m.renamed, path)
}

// Insert adds or replaces an entry, enforcing spec.md §3's collapsing
// invariants:
//   - inserting created for a path currently deleted (or vice versa)
//     collapses both into modified{where:local};
//   - inserting renamed{path, oldPath} removes any created/deleted at
//     either endpoint.
func (m *Manager) Insert(s ItemStatus) {
	switch s.Status {
	case StatusCreated:
		if existing, ok := m.deleted[s.Path]; ok {
			m.removeFromAll(s.Path)
			m.modified[s.Path] = ItemStatus{
				Path: s.Path, Type: s.Type, Mtime: s.Mtime, Content: s.Content,
				Warnings: s.Warnings, Status: StatusModified, Where: WhereLocal,
			}
			_ = existing
			return
		}
	case StatusDeleted:
		if existing, ok := m.created[s.Path]; ok {
			m.removeFromAll(s.Path)
			m.modified[s.Path] = ItemStatus{
				Path: s.Path, Type: existing.Type, Mtime: existing.Mtime, Content: existing.Content,
				Warnings: existing.Warnings, Status: StatusModified, Where: WhereLocal,
			}
			return
		}
	case StatusRenamed:
		m.removeFromAll(s.Path)
		m.removeFromAll(s.OldPath)
		m.renamed[s.Path] = s
		return
	}

	m.removeFromAll(s.Path)
	m.bucket(s.Status)[s.Path] = s
}

// Get returns the entry at path, if any.
func (m *Manager) Get(path string) (ItemStatus, bool) {
	for _, b := range m.allBuckets() {
		if s, ok := b[path]; ok {
			return s, true
		}
	}
	return ItemStatus{}, false
}

// Has reports whether path has an entry.
func (m *Manager) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Remove deletes the entry at path, if any.
func (m *Manager) Remove(path string) {
	m.removeFromAll(path)
}

// Update merges patch into the existing entry at path (used by the push
// pipeline to attach unknown:<msg> warnings on partial failure). It is a
// no-op if path has no entry.
func (m *Manager) Update(path string, patch func(ItemStatus) ItemStatus) {
	existing, ok := m.Get(path)
	if !ok {
		return
	}
	updated := patch(existing)
	m.removeFromAll(path)
	m.bucket(updated.Status)[updated.Path] = updated
}

func (m *Manager) allBuckets() []map[string]ItemStatus {
	return []map[string]ItemStatus{m.created, m.deleted, m.modified, m.notModified, m.renamed}
}

// Size returns the total number of distinct paths tracked.
func (m *Manager) Size() int {
	n := 0
	for _, b := range m.allBuckets() {
		n += len(b)
	}
	return n
}

// Changes returns size() - notModified count.
func (m *Manager) Changes() int {
	return m.Size() - len(m.notModified)
}

// Filter returns a new Manager containing only entries for which pred
// returns true.
func (m *Manager) Filter(pred func(ItemStatus) bool) *Manager {
	out := NewManager()
	for _, e := range m.entriesUnsorted() {
		if pred(e) {
			out.Insert(e)
		}
	}
	return out
}

// Map returns a new Manager with every entry replaced by fn(entry). fn must
// not change an entry's Path without also being prepared for the Insert
// collapsing rules to apply.
func (m *Manager) Map(fn func(ItemStatus) ItemStatus) *Manager {
	out := NewManager()
	for _, e := range m.entriesUnsorted() {
		out.Insert(fn(e))
	}
	return out
}

// Merge overlays other onto m: entries in other override those at the same
// path here. Returns m for chaining.
func (m *Manager) Merge(other *Manager) *Manager {
	for _, e := range other.entriesUnsorted() {
		m.Insert(e)
	}
	return m
}

func (m *Manager) entriesUnsorted() []ItemStatus {
	out := make([]ItemStatus, 0, m.Size())
	for _, b := range m.allBuckets() {
		for _, e := range b {
			out = append(out, e)
		}
	}
	return out
}


