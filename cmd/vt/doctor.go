package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var doctorRepair bool

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Diagnose a working tree's metadata, ignore file, lock, and connectivity",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorRepair, "repair", false, "attempt to repair a stale lock or broken ignore file")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := newOutput()
	root := workingRoot(args, 0)

	deps, err := newDeps(root)
	if err != nil {
		return err
	}

	report := ops.Doctor(cmd.Context(), deps, root)

	if doctorRepair {
		for _, c := range report.Checks {
			if c.OK {
				continue
			}
			switch c.Name {
			case "watcher lock":
				if msg, err := ops.RepairLock(root); err == nil {
					out.Successf("repaired watcher lock: %s", msg)
				} else {
					out.Errorf("repair watcher lock: %v", err)
				}
			case "ignore rules":
				if msg, err := ops.RepairIgnoreFile(root); err == nil {
					out.Successf("repaired ignore file: %s", msg)
				} else {
					out.Errorf("repair ignore file: %v", err)
				}
			}
		}
		report = ops.Doctor(cmd.Context(), deps, root)
	}

	if out.IsJSON() {
		type jsonCheck struct {
			Name   string `json:"name"`
			OK     bool   `json:"ok"`
			Detail string `json:"detail,omitempty"`
		}
		rendered := make([]jsonCheck, len(report.Checks))
		for i, c := range report.Checks {
			rendered[i] = jsonCheck{Name: c.Name, OK: c.OK, Detail: c.Detail}
		}
		return out.JSON(map[string]interface{}{"checks": rendered, "healthy": report.Healthy()})
	}

	for _, c := range report.Checks {
		marker := "✓"
		if !c.OK {
			marker = "✗"
		}
		label := c.Name
		if c.Detail != "" {
			label = fmt.Sprintf("%s: %s", c.Name, c.Detail)
		}
		out.StatusLine(marker, label, "")
	}

	if !report.Healthy() {
		return fmt.Errorf("one or more checks failed; rerun with --repair to attempt fixes")
	}
	out.Success("all checks passed")
	return nil
}
