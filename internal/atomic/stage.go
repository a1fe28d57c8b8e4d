// Package atomic implements staging (spec.md §4.6): a mutation closure runs
// against a fresh temporary directory, and only on success is it copied
// over the target. On any failure the target is left untouched.
package atomic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/valtown/vt/internal/vtpath"
)

// Stage creates a unique temp directory labeled with label, runs op
// against it, and on success copies it into targetDir (creating it if
// needed), overwriting existing files but preserving ones op didn't touch.
// If op returns an error, the temp directory is removed and the error is
// returned; targetDir is never touched in that case.
func Stage(targetDir, label string, op func(tmpDir string) error) error {
	tmp, err := os.MkdirTemp("", "vt-"+label+"-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := op(tmp); err != nil {
		return err
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	return copyTree(tmp, targetDir)
}

// copyTree copies src into dst, preserving mtimes and overwriting existing
// files, without removing anything already present in dst — staging copies
// into, not over, the target, so untracked files survive (spec.md §4.6).
func copyTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return err
			}
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CleanDirectory removes every top-level entry of dir not matched by
// rules, recursing into directories (spec.md §4.6).
func CleanDirectory(dir string, rules *vtpath.Rules) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if rules.ShouldIgnore(entry.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
