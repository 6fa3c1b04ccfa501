// Package cli implements the leasewarden command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leasewarden",
	Short: "Tenancy contract audit engine",
	Long: "Audits tenancy contracts against a pattern rule table, the rental index\n" +
		"increase slabs, and the renewal notice window, and records every verdict\n" +
		"in an append-only hash-chained ledger.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
