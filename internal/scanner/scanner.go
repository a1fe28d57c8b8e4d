// Package scanner implements the status algorithm (spec.md §4.4): walking
// the local tree and the remote listing in parallel and producing an
// ItemStatusManager describing creations, deletions, modifications,
// unchanged entries, and warnings.
//
// Grounded on the teacher's internal/scenarios.Classifier.Detect, which
// walks several data sources and assembles a classified state, and on the
// three-way comparison idiom in the onedrive-go reconciler
// (other_examples) for the local/remote/base diff itself.
package scanner

import (
	"context"
	"fmt"

	"github.com/valtown/vt/internal/itemstatus"
	"github.com/valtown/vt/internal/rename"
	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/vtpath"
)

// MaxFileChars is the size threshold past which a file is flagged
// too_large and excluded from upload (spec.md §3).
const MaxFileChars = 1_000_000

// Scanner walks a working tree and a remote listing to produce an
// ItemStatusManager.
type Scanner struct {
	Facade  remote.Facade
	History vtpath.PriorTypeLookup
	Rename  *rename.Detector
}

// New creates a Scanner. history may be nil (no prior-type history
// available, e.g. when the façade is not memoized).
func New(facade remote.Facade, history vtpath.PriorTypeLookup) *Scanner {
	return &Scanner{Facade: facade, History: history, Rename: rename.New()}
}

// Scan implements spec.md §4.4's algorithm over root against (valID,
// branchID, version), applying rules to skip ignored paths.
func (s *Scanner) Scan(ctx context.Context, root, valID, branchID string, version int, rules *vtpath.Rules) (*itemstatus.Manager, error) {
	local, err := walkLocal(root, rules)
	if err != nil {
		return nil, fmt.Errorf("walk local tree: %w", err)
	}

	remoteItems, err := s.Facade.ListItems(ctx, valID, branchID, version, true)
	if err != nil {
		return nil, fmt.Errorf("list remote items: %w", err)
	}
	remoteByPath := make(map[string]remote.Item, len(remoteItems))
	for _, it := range remoteItems {
		remoteByPath[it.Path] = it
	}

	mgr := itemstatus.NewManager()
	localByPath := make(map[string]bool, len(local))

	for _, entry := range local {
		localByPath[entry.Path] = true

		remoteItem, existsRemotely := remoteByPath[entry.Path]

		if !existsRemotely {
			status, err := s.classifyCreated(ctx, root, valID, branchID, version, entry)
			if err != nil {
				return nil, err
			}
			mgr.Insert(status)
			continue
		}

		if entry.IsDir && remoteItem.Type == remote.ItemTypeDirectory {
			mgr.Insert(itemstatus.ItemStatus{Path: entry.Path, Type: vtpath.TypeDirectory, Mtime: entry.Mtime, Status: itemstatus.StatusNotModified})
			continue
		}

		status, err := s.classifyExisting(ctx, root, valID, branchID, version, entry, remoteItem)
		if err != nil {
			return nil, err
		}
		mgr.Insert(status)
	}

	for path, remoteItem := range remoteByPath {
		if localByPath[path] {
			continue
		}
		if rules.ShouldIgnore(path) {
			continue
		}
		status, err := s.classifyDeleted(ctx, valID, branchID, version, remoteItem)
		if err != nil {
			return nil, err
		}
		mgr.Insert(status)
	}

	return s.Rename.Consolidate(mgr), nil
}

// classifyCreated handles a local path absent from the remote listing:
// step 3's "If absent from remote map" branch of §4.4.
func (s *Scanner) classifyCreated(ctx context.Context, root, valID, branchID string, version int, entry localEntry) (itemstatus.ItemStatus, error) {
	if entry.IsDir {
		return itemstatus.ItemStatus{Path: entry.Path, Type: vtpath.TypeDirectory, Mtime: entry.Mtime, Status: itemstatus.StatusCreated}, nil
	}

	content, err := readFile(root, entry.Path)
	if err != nil {
		return itemstatus.ItemStatus{}, err
	}

	itemType, err := vtpath.InferItemType(s.History, valID, branchID, version, entry.Path)
	if err != nil {
		return itemstatus.ItemStatus{}, err
	}

	status := itemstatus.ItemStatus{
		Path: entry.Path, Type: itemType, Mtime: entry.Mtime, Content: content,
		Status: itemstatus.StatusCreated,
	}
	status.Warnings = detectWarnings(entry.Path, content)
	return status, nil
}

// classifyExisting handles a path present on both sides: step 3's fast-path
// mtime comparison, falling back to a byte-for-byte content comparison.
func (s *Scanner) classifyExisting(ctx context.Context, root, valID, branchID string, version int, entry localEntry, remoteItem remote.Item) (itemstatus.ItemStatus, error) {
	content, err := readFile(root, entry.Path)
	if err != nil {
		return itemstatus.ItemStatus{}, err
	}

	itemType := fromRemoteType(remoteItem.Type)
	remoteMtimeMs := remoteItem.UpdatedAt.UnixMilli()

	status := itemstatus.ItemStatus{Path: entry.Path, Type: itemType, Mtime: entry.Mtime, Content: content}
	status.Warnings = detectWarnings(entry.Path, content)

	if entry.Mtime <= remoteMtimeMs {
		status.Status = itemstatus.StatusNotModified
		return status, nil
	}

	remoteContent, err := s.Facade.FetchContent(ctx, valID, entry.Path, branchID, version)
	if err != nil {
		return itemstatus.ItemStatus{}, err
	}

	if string(remoteContent) == string(content) {
		status.Status = itemstatus.StatusNotModified
		return status, nil
	}

	status.Status = itemstatus.StatusModified
	status.Where = itemstatus.WhereLocal
	return status, nil
}

// classifyDeleted handles a remote path absent locally: step 4 of §4.4.
// Content is fetched here (rather than deferred) because the rename
// detector needs every deletion's bytes to score candidate matches;
// directories have no content and are skipped.
func (s *Scanner) classifyDeleted(ctx context.Context, valID, branchID string, version int, remoteItem remote.Item) (itemstatus.ItemStatus, error) {
	status := itemstatus.ItemStatus{
		Path:   remoteItem.Path,
		Type:   fromRemoteType(remoteItem.Type),
		Mtime:  remoteItem.UpdatedAt.UnixMilli(),
		Status: itemstatus.StatusDeleted,
	}
	if remoteItem.Type == remote.ItemTypeDirectory {
		return status, nil
	}
	content, err := s.Facade.FetchContent(ctx, valID, remoteItem.Path, branchID, version)
	if err != nil {
		return itemstatus.ItemStatus{}, err
	}
	status.Content = content
	return status, nil
}

func fromRemoteType(t remote.ItemType) vtpath.ItemType {
	switch t {
	case remote.ItemTypeScript:
		return vtpath.TypeScript
	case remote.ItemTypeHTTP:
		return vtpath.TypeHTTP
	case remote.ItemTypeInterval:
		return vtpath.TypeInterval
	case remote.ItemTypeEmail:
		return vtpath.TypeEmail
	case remote.ItemTypeDirectory:
		return vtpath.TypeDirectory
	default:
		return vtpath.TypeFile
	}
}
