package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vterrors "github.com/valtown/vt/internal/errors"
)

var (
	format  string
	noColor bool
	quiet   bool
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "vt",
		Short: "Sync a local directory with a Val Town val",
		Long: `vt keeps a local working tree in sync with a Val Town val: clone a val
down, edit files locally, and push or pull changes through the same
model git users already know.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output format (human|json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(remixCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describeError(err))
		os.Exit(exitCodeFor(err))
	}
}

// describeError prefers a vt *errors.Error's user-friendly rendering
// (message plus hint) over the bare Go error string.
func describeError(err error) string {
	var ve *vterrors.Error
	if errors.As(err, &ve) {
		return ve.UserFriendlyMessage()
	}
	return err.Error()
}

// exitCodeFor implements spec.md §6: 0 success (unreachable here, since
// main only calls this on error), 1 for a user-visible vt error, 2
// reserved for usage errors raised by the CLI shell itself.
func exitCodeFor(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

// errUsage marks an error as a CLI usage error (bad flags/arguments) rather
// than a user-visible operational failure, so exitCodeFor can pick 2.
var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errUsage}, args...)...)
}
