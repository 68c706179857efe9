package subscription

import (
	"github.com/spf13/cobra"
)

// Cmd is the subscription command group
var Cmd = &cobra.Command{
	Use:     "subscription",
	Aliases: []string{"sub"},
	Short:   "Manage subscriptions",
	Long:    `Create, pause, resume and list your newspaper and milk subscriptions.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(pauseCmd)
	Cmd.AddCommand(resumeCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
}
