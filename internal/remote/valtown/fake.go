package valtown

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/valtown/vt/internal/remote"
)

// Fake is an in-memory remote.Facade used by operation-level tests in
// place of the HTTP client, grounded on the teacher's fake-client injection
// pattern (internal/remote/factory_test.go).
type Fake struct {
	mu       sync.Mutex
	vals     map[string]remote.Val
	branches map[string][]remote.Branch           // valID -> branches
	history  map[string]map[int][]remote.Item     // valID -> version -> items snapshot
	content  map[string]map[string][]byte         // valID -> itemID -> content
	nextID   int
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{
		vals:     make(map[string]remote.Val),
		branches: make(map[string][]remote.Branch),
		history:  make(map[string]map[int][]remote.Item),
		content:  make(map[string]map[string][]byte),
	}
}

func (f *Fake) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%d", prefix, f.nextID)
}

// Seed registers a val with a single "main" branch at version 0 and no
// items, returning the created val and branch for test setup convenience.
func (f *Fake) Seed(owner, name string) (remote.Val, remote.Branch) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := remote.Val{ID: f.newID("val"), OwnerUsername: owner, Name: name, Privacy: "public"}
	b := remote.Branch{ID: f.newID("branch"), Name: "main", Version: 0, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.vals[v.ID] = v
	f.branches[v.ID] = []remote.Branch{b}
	f.history[v.ID] = map[int][]remote.Item{0: {}}
	f.content[v.ID] = map[string][]byte{}
	return v, b
}

// SeedItem adds an item at the branch's current version (bumping it by
// one) with the given content, for building up a starting remote tree in
// tests.
func (f *Fake) SeedItem(valID, branchID, path string, itemType remote.ItemType, content []byte) remote.Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	branches := f.branches[valID]
	idx := -1
	for i, b := range branches {
		if b.ID == branchID {
			idx = i
			break
		}
	}
	if idx == -1 {
		panic("fake: unknown branch " + branchID)
	}

	prevVersion := branches[idx].Version
	prev := append([]remote.Item{}, f.history[valID][prevVersion]...)

	item := remote.Item{ID: f.newID("item"), Path: path, Name: baseName(path), Type: itemType, UpdatedAt: time.Now()}
	prev = append(prev, item)

	newVersion := prevVersion + 1
	f.history[valID][newVersion] = prev
	branches[idx].Version = newVersion
	branches[idx].UpdatedAt = time.Now()
	f.branches[valID] = branches

	if content != nil {
		f.content[valID][item.ID] = content
	}
	return item
}

func baseName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

func (f *Fake) ListItems(ctx context.Context, valID, branchID string, version int, recursive bool) ([]remote.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, ok := f.history[valID][version]
	if !ok {
		return nil, remote.ClassifyValTownError(404, fmt.Errorf("version %d not found", version))
	}
	out := make([]remote.Item, len(snap))
	copy(out, snap)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (f *Fake) FetchContent(ctx context.Context, valID, pathOrID, branchID string, version int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, ok := f.history[valID][version]
	if !ok {
		return nil, remote.ClassifyValTownError(404, fmt.Errorf("version %d not found", version))
	}
	for _, it := range snap {
		if it.Path == pathOrID || it.ID == pathOrID {
			return append([]byte{}, f.content[valID][it.ID]...), nil
		}
	}
	return nil, remote.ClassifyValTownError(404, fmt.Errorf("item %s not found", pathOrID))
}

func (f *Fake) currentItems(valID, branchID string) ([]remote.Item, int, error) {
	branches := f.branches[valID]
	for _, b := range branches {
		if b.ID == branchID {
			return append([]remote.Item{}, f.history[valID][b.Version]...), b.Version, nil
		}
	}
	return nil, 0, remote.ClassifyValTownError(404, fmt.Errorf("branch %s not found", branchID))
}

func (f *Fake) commit(valID, branchID string, items []remote.Item) {
	branches := f.branches[valID]
	for i, b := range branches {
		if b.ID == branchID {
			newVersion := b.Version + 1
			f.history[valID][newVersion] = items
			branches[i].Version = newVersion
			branches[i].UpdatedAt = time.Now()
			f.branches[valID] = branches
			return
		}
	}
}

func (f *Fake) CreateItem(ctx context.Context, valID string, p remote.CreateItemParams) (remote.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, _, err := f.currentItems(valID, p.BranchID)
	if err != nil {
		return remote.Item{}, err
	}
	for _, it := range items {
		if it.Path == p.Path {
			return remote.Item{}, remote.ClassifyValTownError(409, fmt.Errorf("path %s already exists", p.Path))
		}
	}

	item := remote.Item{ID: f.newID("item"), Path: p.Path, Name: baseName(p.Path), Type: p.Type, UpdatedAt: time.Now()}
	items = append(items, item)
	f.commit(valID, p.BranchID, items)
	if p.Content != nil {
		f.content[valID][item.ID] = p.Content
	}
	return item, nil
}

func (f *Fake) UpdateItem(ctx context.Context, valID string, p remote.UpdateItemParams) (remote.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, _, err := f.currentItems(valID, p.BranchID)
	if err != nil {
		return remote.Item{}, err
	}

	idx := -1
	for i, it := range items {
		if it.Path == p.Path {
			idx = i
			break
		}
	}
	if idx == -1 {
		return remote.Item{}, remote.ClassifyValTownError(404, fmt.Errorf("path %s not found", p.Path))
	}

	item := items[idx]
	if p.Content != nil {
		f.content[valID][item.ID] = p.Content
	}
	if p.NewName != nil {
		dir := dirName(item.Path)
		item.Path = joinPath(dir, *p.NewName)
		item.Name = *p.NewName
	}
	if p.NewParentID.IsSet() {
		if p.NewParentID.IsRoot() {
			item.Path = item.Name
		}
		// Moving under a specific directory id is a test-only convenience:
		// the fake doesn't model directory ids, so only root-moves and
		// rename-in-place are exercised here; real moves go through the
		// HTTP client.
	}
	item.UpdatedAt = time.Now()
	items[idx] = item
	f.commit(valID, p.BranchID, items)
	return item, nil
}

func dirName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func (f *Fake) DeleteItem(ctx context.Context, valID string, p remote.DeleteItemParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, _, err := f.currentItems(valID, p.BranchID)
	if err != nil {
		return err
	}

	out := items[:0]
	found := false
	for _, it := range items {
		if it.Path == p.Path {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return remote.ClassifyValTownError(404, fmt.Errorf("path %s not found", p.Path))
	}
	f.commit(valID, p.BranchID, out)
	return nil
}

func (f *Fake) ListBranches(ctx context.Context, valID string) ([]remote.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]remote.Branch{}, f.branches[valID]...)
	return out, nil
}

func (f *Fake) CreateBranch(ctx context.Context, valID string, p remote.CreateBranchParams) (remote.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.branches[valID] {
		if b.Name == p.Name {
			return remote.Branch{}, remote.ClassifyValTownError(409, fmt.Errorf("branch %s already exists", p.Name))
		}
	}

	var fromVersion int
	found := false
	for _, b := range f.branches[valID] {
		if b.ID == p.FromBranchID {
			fromVersion = b.Version
			found = true
			break
		}
	}
	if !found {
		return remote.Branch{}, remote.ClassifyValTownError(404, fmt.Errorf("branch %s not found", p.FromBranchID))
	}

	nb := remote.Branch{ID: f.newID("branch"), Name: p.Name, Version: fromVersion, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.branches[valID] = append(f.branches[valID], nb)
	f.history[valID][fromVersion] = append([]remote.Item{}, f.history[valID][fromVersion]...)
	return nb, nil
}

func (f *Fake) GetLatestVersion(ctx context.Context, valID, branchID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.branches[valID] {
		if b.ID == branchID {
			return b.Version, nil
		}
	}
	return 0, remote.ClassifyValTownError(404, fmt.Errorf("branch %s not found", branchID))
}

func (f *Fake) CreateVal(ctx context.Context, p remote.CreateValParams) (remote.Val, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range f.vals {
		if v.Name == p.Name {
			return remote.Val{}, remote.ClassifyValTownError(409, fmt.Errorf("val %s already exists", p.Name))
		}
	}

	v := remote.Val{ID: f.newID("val"), OwnerUsername: "me", Name: p.Name, Privacy: p.Privacy, Description: p.Description}
	f.vals[v.ID] = v
	b := remote.Branch{ID: f.newID("branch"), Name: "main", Version: 0, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.branches[v.ID] = []remote.Branch{b}
	f.history[v.ID] = map[int][]remote.Item{0: {}}
	f.content[v.ID] = map[string][]byte{}
	return v, nil
}

func (f *Fake) DeleteVal(ctx context.Context, valID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vals[valID]; !ok {
		return remote.ClassifyValTownError(404, fmt.Errorf("val %s not found", valID))
	}
	delete(f.vals, valID)
	delete(f.branches, valID)
	delete(f.history, valID)
	delete(f.content, valID)
	return nil
}

func (f *Fake) RetrieveVal(ctx context.Context, valID string) (remote.Val, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vals[valID]
	if !ok {
		return remote.Val{}, remote.ClassifyValTownError(404, fmt.Errorf("val %s not found", valID))
	}
	return v, nil
}

func (f *Fake) ResolveVal(ctx context.Context, ownerUsername, valName string) (remote.Val, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vals {
		if v.OwnerUsername == ownerUsername && v.Name == valName {
			return v, nil
		}
	}
	return remote.Val{}, remote.ClassifyValTownError(404, fmt.Errorf("val %s/%s not found", ownerUsername, valName))
}

var _ remote.Facade = (*Fake)(nil)

// MainBranch is a small test helper returning the "main" branch of a seeded val.
func (f *Fake) MainBranch(valID string) remote.Branch {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.branches[valID] {
		if b.Name == "main" {
			return b
		}
	}
	panic("fake: no main branch for " + valID)
}

// FormatVersion is a tiny helper used by tests that print version numbers
// in assertions/messages.
func FormatVersion(v int) string { return strconv.Itoa(v) }
