package ops

import (
	"fmt"
	"os"

	"github.com/valtown/vt/internal/metadata"
)

// RepairLock removes a stale watcher lock (owning PID no longer alive).
// It refuses if the lock is held by a live process. Adapted from the
// teacher's internal/autofix auto-remediation idiom: doctor diagnoses,
// repair fixes the specific thing doctor flagged.
func RepairLock(root string) (string, error) {
	lock, err := metadata.AcquireLock(root)
	if err != nil {
		return "", fmt.Errorf("lock is held by a live process, refusing to repair: %w", err)
	}
	if err := lock.Release(); err != nil {
		return "", err
	}
	return "removed stale watcher lock", nil
}

// RepairIgnoreFile backs up an unreadable .vtignore and replaces it with
// the starter template, so a corrupted ignore file never blocks status.
func RepairIgnoreFile(root string) (string, error) {
	path := root + "/.vtignore"
	if _, err := metadata.LoadIgnoreRules(root); err == nil {
		return "", fmt.Errorf(".vtignore is already valid, nothing to repair")
	}

	backup := path + ".bak"
	if err := os.Rename(path, backup); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("back up existing ignore file: %w", err)
	}
	if err := metadata.WriteStarterIgnore(root); err != nil {
		return "", err
	}
	return fmt.Sprintf("backed up the existing .vtignore to %s and wrote a fresh starter file", backup), nil
}
