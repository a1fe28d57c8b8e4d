// Package remote defines the typed, platform-agnostic surface the rest of
// vt uses to talk to Val Town (spec.md §4.2). It describes a contract, not
// a wire format: internal/remote/valtown provides the HTTP implementation;
// tests substitute internal/remote/valtown.Fake.
package remote

import (
	"context"
	"time"
)

// ItemType mirrors vtpath.ItemType as a separate type; conversions between
// the two live in typehistory.go, internal/ops/convert.go and
// internal/scanner.
type ItemType string

const (
	ItemTypeScript    ItemType = "script"
	ItemTypeHTTP      ItemType = "http"
	ItemTypeInterval  ItemType = "interval"
	ItemTypeEmail     ItemType = "email"
	ItemTypeFile      ItemType = "file"
	ItemTypeDirectory ItemType = "directory"
)

// Item is one entry in a val's tree at a given (val, branch, version).
type Item struct {
	ID        string
	Path      string
	Name      string
	Type      ItemType
	UpdatedAt time.Time
}

// Branch is a named linear history within a val.
type Branch struct {
	ID        string
	Name      string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Val identifies a remote unit of ownership.
type Val struct {
	ID            string
	OwnerUsername string
	Name          string
	Privacy       string
	Description   string
}

// CreateItemParams is the input to CreateItem.
type CreateItemParams struct {
	Path     string
	Type     ItemType
	Content  []byte // nil for directories
	BranchID string
}

// ParentMove expresses the three states a parent-directory move can be in:
// left unchanged, moved to root, or moved under a specific directory id.
// This is what lets UpdateItem distinguish "no move" from "move to root"
// (JSON null) from "move under id X", per spec.md §4.2.
type ParentMove struct {
	set bool
	id  string // empty when moving to root
}

// KeepParent leaves the item's parent directory unchanged.
func KeepParent() ParentMove { return ParentMove{} }

// MoveToRoot moves the item to the val's root.
func MoveToRoot() ParentMove { return ParentMove{set: true} }

// MoveToParent moves the item under the directory identified by id.
func MoveToParent(id string) ParentMove { return ParentMove{set: true, id: id} }

// IsSet reports whether a move was requested at all.
func (m ParentMove) IsSet() bool { return m.set }

// IsRoot reports whether the requested move targets the root.
func (m ParentMove) IsRoot() bool { return m.set && m.id == "" }

// ID returns the target parent id; only meaningful when IsSet() and !IsRoot().
func (m ParentMove) ID() string { return m.id }

// UpdateItemParams is the input to UpdateItem.
type UpdateItemParams struct {
	Path        string
	Content     []byte
	NewName     *string
	NewParentID ParentMove
	BranchID    string
}

// DeleteItemParams is the input to DeleteItem.
type DeleteItemParams struct {
	Path      string
	BranchID  string
	Recursive bool
}

// CreateValParams is the input to CreateVal.
type CreateValParams struct {
	Name        string
	Privacy     string
	Description string
	OrgID       string
}

// CreateBranchParams is the input to CreateBranch.
type CreateBranchParams struct {
	FromBranchID string
	Name         string
}

// Facade is the full typed surface vt's operations compose against.
type Facade interface {
	ListItems(ctx context.Context, valID, branchID string, version int, recursive bool) ([]Item, error)
	FetchContent(ctx context.Context, valID, pathOrID, branchID string, version int) ([]byte, error)
	CreateItem(ctx context.Context, valID string, p CreateItemParams) (Item, error)
	UpdateItem(ctx context.Context, valID string, p UpdateItemParams) (Item, error)
	DeleteItem(ctx context.Context, valID string, p DeleteItemParams) error

	ListBranches(ctx context.Context, valID string) ([]Branch, error)
	CreateBranch(ctx context.Context, valID string, p CreateBranchParams) (Branch, error)
	GetLatestVersion(ctx context.Context, valID, branchID string) (int, error)

	CreateVal(ctx context.Context, p CreateValParams) (Val, error)
	DeleteVal(ctx context.Context, valID string) error
	RetrieveVal(ctx context.Context, valID string) (Val, error)
	ResolveVal(ctx context.Context, ownerUsername, valName string) (Val, error)
}
