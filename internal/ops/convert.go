package ops

import (
	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/vtpath"
)

// fromRemoteItemType converts the façade's ItemType to vtpath's, mirroring
// internal/scanner's private conversion — kept separate because vtpath must
// not import remote (see internal/remote/facade.go's ItemType doc comment).
func fromRemoteItemType(t remote.ItemType) vtpath.ItemType {
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

// toRemoteItemType is convert's inverse, used when an op needs to tell the
// façade what kind of item to create from a locally-inferred vtpath.ItemType.
func toRemoteItemType(t vtpath.ItemType) remote.ItemType {
	switch t {
	case vtpath.TypeScript:
		return remote.ItemTypeScript
	case vtpath.TypeHTTP:
		return remote.ItemTypeHTTP
	case vtpath.TypeInterval:
		return remote.ItemTypeInterval
	case vtpath.TypeEmail:
		return remote.ItemTypeEmail
	case vtpath.TypeDirectory:
		return remote.ItemTypeDirectory
	default:
		return remote.ItemTypeFile
	}
}
