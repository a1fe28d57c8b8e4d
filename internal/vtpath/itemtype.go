package vtpath

import (
	"path"
	"regexp"
	"strings"
)

// ItemType is one of the six kinds a tree entry can be (spec.md §3).
type ItemType string

const (
	TypeScript    ItemType = "script"
	TypeHTTP      ItemType = "http"
	TypeInterval  ItemType = "interval"
	TypeEmail     ItemType = "email"
	TypeFile      ItemType = "file"
	TypeDirectory ItemType = "directory"
)

// codeExtensions are the source extensions that make a path eligible for
// script/http/interval/email classification; anything else is a plain file.
var codeExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// HistoryLookback is N in spec.md §4.1: if path existed remotely in
// [version, version-N), its recorded type wins over filename heuristics.
const HistoryLookback = 5

// PriorTypeLookup resolves a path's previously recorded remote item type
// within the last HistoryLookback versions of a branch, or reports that it
// was never seen. Implemented by the remote façade; kept as a narrow
// interface here so vtpath has no dependency on the façade package.
type PriorTypeLookup interface {
	PriorType(val, branch string, version int, path string) (ItemType, bool, error)
}

// InferItemType implements spec.md §4.1's inferItemType: prior remote
// history wins; otherwise code extensions are disambiguated by filename
// heuristic; anything else is a plain file.
func InferItemType(history PriorTypeLookup, val, branch string, version int, p string) (ItemType, error) {
	if history != nil {
		if t, ok, err := history.PriorType(val, branch, version, p); err != nil {
			return "", err
		} else if ok {
			return t, nil
		}
	}
	return inferFromName(p), nil
}

// inferFromName applies the filename heuristic alone, with no history
// lookup — used for content created fresh in this process (no val yet) and
// by tests.
func inferFromName(p string) ItemType {
	ext := strings.ToLower(path.Ext(p))
	if !codeExtensions[ext] {
		return TypeFile
	}

	base := strings.ToLower(strings.TrimSuffix(path.Base(p), path.Ext(p)))
	matches := 0
	var matched ItemType
	if intervalPattern.MatchString(base) {
		matches++
		matched = TypeInterval
	}
	if httpPattern.MatchString(base) {
		matches++
		matched = TypeHTTP
	}
	if emailPattern.MatchString(base) {
		matches++
		matched = TypeEmail
	}
	if matches == 1 {
		return matched
	}
	return TypeScript
}

var (
	intervalPattern = regexp.MustCompile(`(cron|interval)`)
	httpPattern     = regexp.MustCompile(`http`)
	emailPattern    = regexp.MustCompile(`email`)
)

// MaxBasenameLength is the platform's limit on an item's basename.
const MaxBasenameLength = 128

// basenamePattern is the platform's permitted basename character set:
// letters, digits, dot, underscore, and dash.
var basenamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidBasename reports whether base is an acceptable item name.
func ValidBasename(base string) bool {
	if base == "" || len(base) > MaxBasenameLength {
		return false
	}
	return basenamePattern.MatchString(base)
}
