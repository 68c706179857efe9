package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check CLI wiring health",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := RequireApp()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		fmt.Fprintf(cmd.OutOrStdout(), "  payment provider: %s\n", a.Payments.SelectProvider())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
