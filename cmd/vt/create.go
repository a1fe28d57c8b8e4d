package main

import (
	"github.com/spf13/cobra"

	"github.com/valtown/vt/internal/ops"
)

var (
	createPrivacy  string
	createOrg      string
	createUpload   bool
	createTemplate bool
)

var createCmd = &cobra.Command{
	Use:   "create <name> [dir]",
	Short: "Create a new val",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createPrivacy, "privacy", "public", "privacy of the new val: public, unlisted, or private")
	createCmd.Flags().StringVar(&createOrg, "org", "", "organization id to create the val under")
	createCmd.Flags().BoolVar(&createUpload, "upload", false, "upload files already present in the target directory")
	createCmd.Flags().BoolVar(&createTemplate, "template", true, "write a starter template file into the target directory")
}

func runCreate(cmd *cobra.Command, args []string) error {
	out := newOutput()
	name := args[0]
	dir := name
	if len(args) > 1 && args[1] != "" {
		dir = args[1]
	}

	deps, err := newDeps(dir)
	if err != nil {
		return err
	}

	spin := out.NewSpinner("creating " + name)
	spin.Start()
	val, mgr, err := ops.Create(cmd.Context(), deps, ops.CreateParams{
		TargetDir: dir, Name: name, Privacy: createPrivacy, OrgID: createOrg,
		UploadExisting: createUpload, WriteTemplate: createTemplate,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	out.Successf("created %s/%s in %s", val.OwnerUsername, val.Name, dir)
	printManager(out, mgr)
	return nil
}
