package remote

import "github.com/valtown/vt/internal/vtpath"

// TypeHistory adapts a Memoized façade to vtpath.PriorTypeLookup, converting
// between the façade's ItemType and vtpath's ItemType so vtpath stays free
// of a dependency on this package.
type TypeHistory struct {
	Memo     *Memoized
	ValID    string
	BranchID string
}

func (h TypeHistory) PriorType(val, branch string, version int, path string) (vtpath.ItemType, bool, error) {
	t, ok, err := h.Memo.PriorType(h.ValID, h.BranchID, version, path, vtpath.HistoryLookback)
	if err != nil || !ok {
		return "", ok, err
	}
	return toVtpathType(t), true, nil
}

func toVtpathType(t ItemType) vtpath.ItemType {
	switch t {
	case ItemTypeScript:
		return vtpath.TypeScript
	case ItemTypeHTTP:
		return vtpath.TypeHTTP
	case ItemTypeInterval:
		return vtpath.TypeInterval
	case ItemTypeEmail:
		return vtpath.TypeEmail
	case ItemTypeDirectory:
		return vtpath.TypeDirectory
	default:
		return vtpath.TypeFile
	}
}

func fromVtpathType(t vtpath.ItemType) ItemType {
	switch t {
	case vtpath.TypeScript:
		return ItemTypeScript
	case vtpath.TypeHTTP:
		return ItemTypeHTTP
	case vtpath.TypeInterval:
		return ItemTypeInterval
	case vtpath.TypeEmail:
		return ItemTypeEmail
	case vtpath.TypeDirectory:
		return ItemTypeDirectory
	default:
		return ItemTypeFile
	}
}
