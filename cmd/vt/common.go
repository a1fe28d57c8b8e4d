package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/valtown/vt/internal/metadata"
	"github.com/valtown/vt/internal/ops"
	"github.com/valtown/vt/internal/remote/valtown"
	"github.com/valtown/vt/internal/ui"
)

// newOutput builds the ui.Output every subcommand renders through,
// honoring the persistent --format/--no-color/--quiet flags.
func newOutput() *ui.Output {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}
	if noColor {
		out.SetColorEnabled(false)
	}
	return out
}

// newDeps wires a valtown.Client built from the resolved configuration
// into an ops.Deps.
func newDeps(root string) (*ops.Deps, error) {
	cfg, err := metadata.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, vtAuthError()
	}
	client := valtown.New(cfg.APIKey)
	return ops.NewDeps(client), nil
}

func vtAuthError() error {
	return fmt.Errorf("no API key configured: set VAL_TOWN_API_KEY or add apiKey to your vt config")
}

// workingRoot resolves the working tree root from an optional positional
// argument, defaulting to the current directory.
func workingRoot(args []string, index int) string {
	if len(args) > index && args[index] != "" {
		return args[index]
	}
	return "."
}

// parseValURI accepts either "username/valName" or the canonical web form
// "https://www.val.town/x/<user>/<name>" (spec.md §6).
func parseValURI(uri string) (owner, name string, err error) {
	trimmed := uri
	if strings.HasPrefix(trimmed, "https://www.val.town/x/") {
		trimmed = strings.TrimPrefix(trimmed, "https://www.val.town/x/")
	} else if strings.HasPrefix(trimmed, "http://www.val.town/x/") {
		trimmed = strings.TrimPrefix(trimmed, "http://www.val.town/x/")
	}
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", usageErrorf("invalid val-uri %q, expected username/valName or a val.town URL", uri)
	}
	return parts[0], parts[1], nil
}
