// Package rename implements the rename detector (spec.md §4.5): pairing a
// scanned collection's deletions with creations whose content is
// sufficiently similar, with an ambiguity guard against misattributing
// renames when several files share identical content.
//
// Grounded on the teacher's absence of a direct analogue; the pairing
// shape (short-circuit on a cheap signal before an expensive comparison)
// mirrors the onedrive-go reconciler's hash-based move detection
// (other_examples), adapted here to use content similarity instead of a
// precomputed hash, since the local scanner has no persistent hash store.
package rename

import (
	"sort"

	"github.com/agext/levenshtein"

	"github.com/valtown/vt/internal/itemstatus"
)

// DefaultThreshold is the design default noted in spec.md §4.5 and left
// explicitly parameterized per §9's open question.
const DefaultThreshold = 0.5

// Detector pairs deletions with creations. Threshold is exported so tests
// (and callers with different tolerance needs) can override it, per
// spec.md §9's guidance to expose the threshold rather than hard-code it.
type Detector struct {
	Threshold float64
}

// New creates a Detector with DefaultThreshold.
func New() *Detector {
	return &Detector{Threshold: DefaultThreshold}
}

// Consolidate runs detection over mgr's current deletions/creations and
// replaces matched pairs with renamed entries, per spec.md §4.4 step 6.
func (d *Detector) Consolidate(mgr *itemstatus.Manager) *itemstatus.Manager {
	return mgr.ConsolidateRenames(d.detect)
}

// detect implements the §4.5 procedure over one (deletions, creations)
// snapshot. Directories never participate (the Manager only has
// non-directory entries in its created/deleted buckets' rename-eligible
// positions by construction of the scanner, but a directory slipping in a
// test fixture is still excluded defensively).
func (d *Detector) detect(deletions, creations []itemstatus.ItemStatus) []itemstatus.RenamePair {
	deletions = excludeDirectories(deletions)
	creations = excludeDirectories(creations)

	// Sort both lists by mtime descending, per §4.5 step 1.
	sort.Slice(deletions, func(i, j int) bool { return deletions[i].Mtime > deletions[j].Mtime })
	sort.Slice(creations, func(i, j int) bool { return creations[i].Mtime > creations[j].Mtime })

	usedCreations := make(map[string]bool)
	var pairs []itemstatus.RenamePair

	for _, del := range deletions {
		best, bestSim, ambiguous := d.bestMatch(del, creations, deletions, usedCreations)
		if ambiguous || best == nil {
			continue
		}
		pairs = append(pairs, itemstatus.RenamePair{Deleted: del, Created: *best, Similarity: bestSim})
		usedCreations[best.Path] = true
	}

	return pairs
}

func excludeDirectories(items []itemstatus.ItemStatus) []itemstatus.ItemStatus {
	out := make([]itemstatus.ItemStatus, 0, len(items))
	for _, it := range items {
		if it.Type != "directory" {
			out = append(out, it)
		}
	}
	return out
}

// bestMatch implements §4.5 steps 2-3 for a single deletion: the short-
// circuit on length delta, a perfect-match fast path on byte equality, and
// otherwise a Levenshtein-based similarity score, tracking the best
// candidate above threshold. It also applies the ambiguity guard: if any
// other deletion or creation shares identical content with an mtime >=
// del.Mtime, the match is discarded to avoid misattributing a rename among
// several identical files.
func (d *Detector) bestMatch(del itemstatus.ItemStatus, creations, allDeletions []itemstatus.ItemStatus, used map[string]bool) (*itemstatus.ItemStatus, float64, bool) {
	var best *itemstatus.ItemStatus
	bestSim := -1.0
	perfect := false

	for i := range creations {
		c := creations[i]
		if c.Path == del.Path || used[c.Path] {
			continue
		}

		lenDel, lenC := len(del.Content), len(c.Content)
		maxLen := lenDel
		if lenC > maxLen {
			maxLen = lenC
		}
		if maxLen == 0 {
			continue
		}
		delta := abs(lenDel - lenC)
		if float64(delta)/float64(maxLen) > d.Threshold {
			continue
		}

		if string(del.Content) == string(c.Content) {
			best = &creations[i]
			bestSim = 1.0
			perfect = true
			break
		}

		dist := levenshtein.Distance(string(del.Content), string(c.Content), nil)
		sim := 1 - float64(dist)/float64(maxLen)
		if sim > d.Threshold && sim > bestSim {
			best = &creations[i]
			bestSim = sim
		}
	}

	if best == nil {
		return nil, 0, false
	}

	if ambiguousContent(del, best, allDeletions, creations, perfect) {
		return nil, 0, true
	}

	return best, bestSim, false
}

// ambiguousContent implements the §4.5 ambiguity guard: a perfect content
// match is only trustworthy if no other deletion or creation (besides the
// matched pair) shares that exact content at an mtime >= del.Mtime.
func ambiguousContent(del itemstatus.ItemStatus, best *itemstatus.ItemStatus, deletions, creations []itemstatus.ItemStatus, perfect bool) bool {
	if !perfect {
		return false
	}

	content := string(del.Content)
	for _, other := range deletions {
		if other.Path == del.Path {
			continue
		}
		if string(other.Content) == content && other.Mtime >= del.Mtime {
			return true
		}
	}
	for _, other := range creations {
		if other.Path == best.Path {
			continue
		}
		if string(other.Content) == content && other.Mtime >= del.Mtime {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
