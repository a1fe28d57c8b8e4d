package itemstatus

import (
	"sort"
	"strings"

	"github.com/valtown/vt/internal/vtpath"
)

// typeOrder and statusOrder implement the tie-break priorities spec.md
// §4.3 specifies for Entries(sorted=true).
var typeOrder = map[vtpath.ItemType]int{
	vtpath.TypeHTTP:      0,
	vtpath.TypeInterval:  1,
	vtpath.TypeEmail:     2,
	vtpath.TypeScript:    3,
	vtpath.TypeFile:      4,
	vtpath.TypeDirectory: 5,
}

var statusOrder = map[StatusKind]int{
	StatusCreated:     0,
	StatusDeleted:     1,
	StatusModified:    2,
	StatusNotModified: 3,
	StatusRenamed:     4,
}

func segmentCount(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, "/") + 1
}

// Entries returns every tracked status. When sorted is true, the order is
// deepest-first by segment count, then by type priority, then by status
// priority, then by basename length, then by path — exactly spec.md §4.3's
// ordering rule.
func (m *Manager) Entries(sorted bool) []ItemStatus {
	out := m.entriesUnsorted()
	if !sorted {
		return out
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if sa, sb := segmentCount(a.Path), segmentCount(b.Path); sa != sb {
			return sa > sb // deepest first
		}
		if ta, tb := typeOrder[a.Type], typeOrder[b.Type]; ta != tb {
			return ta < tb
		}
		if sa, sb := statusOrder[a.Status], statusOrder[b.Status]; sa != sb {
			return sa < sb
		}
		if la, lb := len(basename(a.Path)), len(basename(b.Path)); la != lb {
			return la < lb
		}
		return a.Path < b.Path
	})
	return out
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ConsolidateRenames applies detect to every deletion/creation pair
// currently tracked and replaces matched pairs with a single renamed
// entry, in place, then returns m. The actual pairing algorithm (spec.md
// §4.5) lives in internal/rename, which calls this with its own detection
// function; it is defined here, not there, because it is the Manager's
// invariant ("a path lives in exactly one bucket") that makes the
// operation idempotent: detect never sees a deletion or creation twice,
// so applying ConsolidateRenames a second time has nothing left to pair
// and is a no-op.
func (m *Manager) ConsolidateRenames(detect func(deletions, creations []ItemStatus) []RenamePair) *Manager {
	deletions := make([]ItemStatus, 0, len(m.deleted))
	for _, d := range m.deleted {
		deletions = append(deletions, d)
	}
	creations := make([]ItemStatus, 0, len(m.created))
	for _, c := range m.created {
		creations = append(creations, c)
	}

	for _, pair := range detect(deletions, creations) {
		m.Insert(ItemStatus{
			Path:       pair.Created.Path,
			OldPath:    pair.Deleted.Path,
			Type:       pair.Deleted.Type,
			Mtime:      pair.Created.Mtime,
			Content:    pair.Created.Content,
			Warnings:   pair.Created.Warnings,
			Status:     StatusRenamed,
			Similarity: pair.Similarity,
		})
	}
	return m
}

// RenamePair is one matched (deletion, creation) pair with its similarity
// score, produced by internal/rename's detector.
type RenamePair struct {
	Deleted    ItemStatus
	Created    ItemStatus
	Similarity float64
}
