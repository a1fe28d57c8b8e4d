package remote

import (
	"context"
	"sync"
)

// listingKey identifies an immutable snapshot: a (val, branch, version)
// triple fully determines a listing, so it is sound to cache within a
// single process run (spec.md §4.2).
type listingKey struct {
	valID    string
	branchID string
	version  int
}

// Memoized wraps a Facade, caching ListItems results per (val, branch,
// version). All other calls pass through unmodified. This is process-wide
// state by nature (spec.md §9 "Module-level globals"), so operations take
// a *Memoized by injection rather than reaching for a package singleton.
type Memoized struct {
	Facade
	mu    sync.Mutex
	cache map[listingKey][]Item
}

// NewMemoized wraps f with a listings cache.
func NewMemoized(f Facade) *Memoized {
	return &Memoized{Facade: f, cache: make(map[listingKey][]Item)}
}

func (m *Memoized) ListItems(ctx context.Context, valID, branchID string, version int, recursive bool) ([]Item, error) {
	// Only the recursive=true case is memoized: that's the only listing
	// shape the scanner and status pipeline request.
	if !recursive {
		return m.Facade.ListItems(ctx, valID, branchID, version, recursive)
	}

	key := listingKey{valID: valID, branchID: branchID, version: version}

	m.mu.Lock()
	if items, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return items, nil
	}
	m.mu.Unlock()

	items, err := m.Facade.ListItems(ctx, valID, branchID, version, recursive)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[key] = items
	m.mu.Unlock()

	return items, nil
}

// PriorType implements vtpath.PriorTypeLookup by scanning the last N
// versions' listings (memoized, so repeated lookups across the scan are
// cheap) for path's most recent recorded type.
func (m *Memoized) PriorType(valID, branchID string, version int, path string, lookback int) (ItemType, bool, error) {
	ctx := context.Background()
	for v := version; v > version-lookback && v >= 0; v-- {
		items, err := m.ListItems(ctx, valID, branchID, v, true)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return "", false, err
		}
		for _, it := range items {
			if it.Path == path {
				return it.Type, true, nil
			}
		}
	}
	return "", false, nil
}
