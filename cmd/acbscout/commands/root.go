// Package commands implements the acbscout command line.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "acbscout",
	Short: "acbscout tracks American players in the Spanish Liga ACB.",
	Long: `acbscout scrapes Liga ACB rosters, fixtures and box scores, joins them
into per-player records and serves them on a small dashboard.

Configuration is read from the environment and from a .env file in the
working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the command line. Only configuration errors give a
// non-zero exit status; stage failures are logged.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
