package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"leasewarden/internal/rules"
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rulesListCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to rules YAML (built-in table if empty)")
}

var rulesPath string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Rule table operations",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules of the active table",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := rules.Load(rulesPath)
		if err != nil {
			return err
		}
		fmt.Printf("# %d rules, %s\n", table.Len(), table.Hash())
		for _, r := range table.Rules() {
			fmt.Printf("%-32s %-7s %s\n", r.Label, r.Severity, r.Pattern)
		}
		return nil
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <rules.yaml>",
	Short: "Validate a rules file",
	Long:  "Compiles every pattern in the file and reports the table hash.\nExits non-zero if any rule is malformed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := rules.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("OK: %d rules, %s\n", table.Len(), table.Hash())
		return nil
	},
}
