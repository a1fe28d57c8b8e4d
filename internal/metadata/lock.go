package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"

	vterrors "github.com/valtown/vt/internal/errors"
)

// lockPayload is the lock file's JSON body: the owning process id, which
// is probed for liveness so that a lock left by a dead process is
// reclaimed, and the time the lock was taken.
type lockPayload struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"startedAt"`
}

// Lock represents an acquired watcher lock for a working tree.
type Lock struct {
	path string
}

func lockPath(root string) string { return filepath.Join(Dir(root), lockFile) }

// AcquireLock creates the lock file for root, reclaiming a stale lock
// (owning PID no longer alive) automatically. A live owning PID is a fatal
// LockHeld error (spec.md §3, §7).
func AcquireLock(root string) (*Lock, error) {
	p := lockPath(root)

	if data, err := os.ReadFile(p); err == nil {
		var existing lockPayload
		if json.Unmarshal(data, &existing) == nil && existing.PID > 0 {
			if processAlive(existing.PID) {
				return nil, vterrors.LockHeld(root, existing.PID)
			}
		}
		// Stale lock: owning PID is dead, or the file was unreadable
		// garbage. Either way it's safe to reclaim.
		_ = os.Remove(p)
	}

	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		return nil, err
	}

	payload := lockPayload{PID: os.Getpid(), StartedAt: time.Now()}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return nil, err
	}

	return &Lock{path: p}, nil
}

// Release removes the lock file. Safe to call multiple times.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// processAlive probes whether pid names a live process via signal 0, the
// standard liveness check on Unix; it never sends a real signal.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
