// Package ops implements the engine's operations (spec.md §4.7): clone,
// pull, push, status, checkout, remix, create, plus the supplemented
// branch-listing and doctor diagnostics (SPEC_FULL.md §C). Each composes
// the scanner, the rename detector, the remote façade, and atomic staging.
//
// Grounded on the teacher's internal/git/dualpush.go and
// cmd/githelper/github_sync.go orchestration style: derive state from
// metadata, fan out per-item remote calls, fold failures into warnings
// rather than aborting.
package ops

import (
	"github.com/valtown/vt/internal/logging"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/remote"
	"github.com/valtown/vt/internal/scanner"
	"github.com/valtown/vt/internal/vtpath"
)

// Deps are the injected collaborators every operation needs, mirroring
// spec.md §9's "pass them by injection so that tests can substitute a
// fake."
type Deps struct {
	Facade  remote.Facade
	Logger  *logging.Logger
	Metrics *logging.Metrics
}

// NewDeps wires a façade into a Memoized wrapper and a default logger.
func NewDeps(f remote.Facade) *Deps {
	return &Deps{
		Facade:  remote.NewMemoized(f),
		Logger:  logging.FromEnv(),
		Metrics: logging.NewMetrics(),
	}
}

// memoized returns d.Facade as *remote.Memoized when possible, for the
// operations that need type-history lookups; it returns nil otherwise
// (e.g. in tests using a bare Fake), in which case type inference falls
// back to filename heuristics only.
func (d *Deps) memoized() *remote.Memoized {
	if m, ok := d.Facade.(*remote.Memoized); ok {
		return m
	}
	return nil
}

func (d *Deps) scannerFor(valID, branchID string) *scanner.Scanner {
	m := d.memoized()
	if m == nil {
		return scanner.New(d.Facade, nil)
	}
	history := &remote.TypeHistory{Memo: m, ValID: valID, BranchID: branchID}
	return scanner.New(d.Facade, history)
}

// ignoreRules loads the combined ignore rule set for a working tree.
func ignoreRules(root string) (*vtpath.Rules, error) {
	return metadata.LoadIgnoreRules(root)
}
