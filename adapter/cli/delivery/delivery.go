package delivery

import (
	"github.com/spf13/cobra"
)

// Cmd is the delivery command group
var Cmd = &cobra.Command{
	Use:   "delivery",
	Short: "Manage delivery days",
	Long:  `Switch single delivery days off or on and view the delivery calendar.`,
}

func init() {
	Cmd.AddCommand(toggleCmd)
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(calendarCmd)
	Cmd.AddCommand(yearCmd)
}
