package payment

import (
	"github.com/spf13/cobra"
)

// Cmd is the payment command group
var Cmd = &cobra.Command{
	Use:   "payment",
	Short: "Confirm, retry and review payments",
}

func init() {
	Cmd.AddCommand(confirmCmd)
	Cmd.AddCommand(retryCmd)
	Cmd.AddCommand(historyCmd)
}
