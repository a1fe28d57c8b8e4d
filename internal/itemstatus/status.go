// Package itemstatus implements the pure, in-memory ItemStatus model
// (spec.md §3, §4.3): a closed sum type over an item's reconciliation
// state, and a Manager collection enforcing the invariants in §3.
//
// Grounded on the teacher's internal/scenarios package, which classifies a
// repository into a handful of tagged *State structs (ExistenceState,
// SyncState, ...); here the tagged union is a single closed sum
// (StatusKind) because spec.md's model really is one sum type per path,
// not several independent dimensions.
package itemstatus

import "github.com/valtown/vt/internal/vtpath"

// StatusKind is the tag of the ItemStatus sum type.
type StatusKind string

const (
	StatusCreated     StatusKind = "created"
	StatusDeleted     StatusKind = "deleted"
	StatusModified    StatusKind = "modified"
	StatusNotModified StatusKind = "not_modified"
	StatusRenamed     StatusKind = "renamed"
)

// Where distinguishes which side changed for a StatusModified entry.
type Where string

const (
	WhereLocal  Where = "local"
	WhereRemote Where = "remote"
)

// Warning is one of a small closed set, plus a free-form "unknown: <msg>"
// variant for errors raised while pushing an item.
type Warning string

const (
	WarningBinary   Warning = "binary"
	WarningBadName  Warning = "bad_name"
	WarningEmpty    Warning = "empty"
	WarningTooLarge Warning = "too_large"
)

// UnknownWarning builds the "unknown: <msg>" variant.
func UnknownWarning(msg string) Warning { return Warning("unknown: " + msg) }

// IsUnknown reports whether w is an "unknown: ..." warning.
func (w Warning) IsUnknown() bool {
	return len(w) > 8 && w[:8] == "unknown:"
}

// IsUploadBlocking reports whether w is one of the warnings that causes an
// item to be filtered out of push (spec.md §3: "items carrying any warning
// other than unknown: are filtered out before upload").
func (w Warning) IsUploadBlocking() bool {
	switch w {
	case WarningBinary, WarningBadName, WarningEmpty, WarningTooLarge:
		return true
	default:
		return false
	}
}

// ItemStatus describes a single path's reconciliation state.
type ItemStatus struct {
	Path     string
	Type     vtpath.ItemType
	Mtime    int64 // ms since epoch
	Content  []byte
	Warnings []Warning

	Status StatusKind

	// Modified-only.
	Where Where

	// Renamed-only.
	OldPath    string
	Similarity float64
}

// HasWarning reports whether s carries w.
func (s ItemStatus) HasWarning(w Warning) bool {
	for _, existing := range s.Warnings {
		if existing == w {
			return true
		}
	}
	return false
}

// HasBlockingWarning reports whether s carries any upload-blocking warning.
func (s ItemStatus) HasBlockingWarning() bool {
	for _, w := range s.Warnings {
		if w.IsUploadBlocking() {
			return true
		}
	}
	return false
}
