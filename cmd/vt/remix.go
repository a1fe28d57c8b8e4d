package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var (
	remixName    string
	remixPrivacy string
	remixOrg     string
)

var remixCmd = &cobra.Command{
	Use:   "remix <val-uri> [dir] [branch]",
	Short: "Remix a val into a new one owned by you",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runRemix,
}

func init() {
	remixCmd.Flags().StringVar(&remixName, "name", "", "name for the new val (defaults to <source>_remix_<suffix>)")
	remixCmd.Flags().StringVar(&remixPrivacy, "privacy", "public", "privacy of the new val: public, unlisted, or private")
	remixCmd.Flags().StringVar(&remixOrg, "org", "", "organization id to create the remix under")
}

func runRemix(cmd *cobra.Command, args []string) error {
	out := newOutput()
	owner, name, err := parseValURI(args[0])
	if err != nil {
		return err
	}

	dir := name
	if len(args) > 1 && args[1] != "" {
		dir = args[1]
	}
	branchName := ""
	if len(args) > 2 {
		branchName = args[2]
	}

	deps, err := newDeps(dir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	spin := out.NewSpinner("remixing " + owner + "/" + name)
	spin.Start()

	source, err := deps.Facade.ResolveVal(ctx, owner, name)
	if err != nil {
		spin.Fail()
		return err
	}

	branchID, err := resolveBranchID(ctx, deps, source.ID, branchName)
	if err != nil {
		spin.Fail()
		return err
	}

	newName := remixName
	if newName == "" {
		newName = fmt.Sprintf("%s_remix_%d", name, remixSuffix())
	}

	val, mgr, err := ops.Remix(ctx, deps, ops.RemixParams{
		TargetDir: dir, SourceValID: source.ID, SourceBranch: branchID,
		NewName: newName, Privacy: remixPrivacy, OrgID: remixOrg,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	out.Successf("remixed %s/%s into %s/%s at %s", owner, name, val.OwnerUsername, val.Name, dir)
	printManager(out, mgr)
	return nil
}

// remixSuffix derives a short, non-time-based disambiguator for the
// default remix name so repeated invocations in the same process don't
// collide; process state (PID) stands in for a true random source since
// math/rand's global seed is left untouched elsewhere in this CLI.
var remixCounter int

func remixSuffix() int {
	remixCounter++
	return os.Getpid()*1000 + remixCounter
}
