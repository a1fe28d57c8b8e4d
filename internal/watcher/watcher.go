// Package watcher implements the interactive watch loop (spec.md §5): a
// filesystem-event stream and an optional periodic tick feed one debounced
// consumer that runs pushes sequentially, with graceful shutdown removing
// the lock file.
//
// Grounded on the fsnotify-plus-debounce-timer idiom in the
// Mschirtzinger-jj-beads watcher and the signal-handling/lock-cleanup
// pattern in Gizzahub-gzh-cli-gitforge's cmd/gz-git/cmd/watch.go.
package watcher

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/valtown/vt/internal/logging"
	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/ops"
)

// DebounceWindow is the trailing debounce interval for coalescing bursts
// of filesystem events into a single push (spec.md §5).
const DebounceWindow = 300 * time.Millisecond

// Watcher watches a working tree and pushes on change.
type Watcher struct {
	Root         string
	Deps         *ops.Deps
	Logger       *logging.Logger
	PollInterval time.Duration // 0 disables the periodic tick producer
	Hooks        Hooks
}

// New creates a Watcher with its lock not yet acquired.
func New(root string, deps *ops.Deps) *Watcher {
	return &Watcher{Root: root, Deps: deps, Logger: deps.Logger}
}

// Run acquires the lock, starts the fsnotify and tick producers, and
// blocks running debounced pushes until ctx is cancelled or an interrupt
// or terminate signal arrives. The lock file is always removed on return.
func (w *Watcher) Run(ctx context.Context) error {
	lock, err := metadata.AcquireLock(w.Root)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatch.Close()
	if err := fsWatch.Add(w.Root); err != nil {
		return err
	}
	if err := addRecursive(fsWatch, w.Root); err != nil {
		w.Logger.Errorf("watch subdirectories: %v", err)
	}

	fire := make(chan struct{}, 1)
	signalFire := func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	}

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if w.PollInterval > 0 {
		ticker = time.NewTicker(w.PollInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	var debounce *time.Timer
	debounceC := func() <-chan time.Time {
		if debounce == nil {
			return nil
		}
		return debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsWatch.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(w.Root, ev.Name) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(DebounceWindow)

		case err, ok := <-fsWatch.Errors:
			if !ok {
				return nil
			}
			w.Logger.Errorf("watch error: %v", err)

		case <-tickC:
			signalFire()

		case <-debounceC():
			debounce = nil
			signalFire()

		case <-fire:
			if w.Hooks.PrePush != nil {
				if err := w.Hooks.PrePush(ctx, w.Root); err != nil {
					w.Logger.Errorf("pre-push hook: %v", err)
					continue
				}
			}
			mgr, err := ops.Push(ctx, w.Deps, ops.PushParams{Root: w.Root})
			if err != nil {
				w.Logger.Errorf("push: %v", err)
			} else {
				w.Logger.Infof("pushed %d change(s)", mgr.Changes())
			}
			if w.Hooks.PostPush != nil {
				w.Hooks.PostPush(ctx, w.Root, mgr, err)
			}
		}
	}
}

func shouldIgnoreEvent(root, name string) bool {
	rules, err := metadata.LoadIgnoreRules(root)
	if err != nil {
		return false
	}
	rel := name
	if len(name) > len(root) {
		rel = name[len(root)+1:]
	}
	return rules.ShouldIgnore(rel)
}

func addRecursive(fsWatch *fsnotify.Watcher, root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == ".git" || e.Name() == ".vt" || e.Name() == "node_modules" {
			continue
		}
		sub := root + "/" + e.Name()
		if err := fsWatch.Add(sub); err != nil {
			continue
		}
		_ = addRecursive(fsWatch, sub)
	}
	return nil
}
