package watcher

import (
	"context"

	"github.com/valtown/vt/internal/itemstatus"
)

// Hooks are optional extension points around a watcher's automatic pushes,
// adapted from the teacher's internal/hooks pre/post hook points (there
// tied to GitHub sync steps; here tied to the push cycle).
type Hooks struct {
	// PrePush runs before a debounced push. Returning an error skips the
	// push entirely (logged, not fatal to the watcher).
	PrePush func(ctx context.Context, root string) error

	// PostPush runs after a push attempt, successful or not; mgr is nil
	// only when the push failed before producing a status.
	PostPush func(ctx context.Context, root string, mgr *itemstatus.Manager, pushErr error)
}
