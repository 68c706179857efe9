package subscription

import (
	"fmt"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your active subscriptions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		views, err := app.Subscriptions.ListForSubscriber(cmd.Context(), app.CurrentSubscriberID)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(views) == 0 {
			fmt.Fprintln(out, "No subscriptions yet. Create one with: dailyease subscription create")
			return nil
		}
		for i := range views {
			if i > 0 {
				fmt.Fprintln(out)
			}
			cli.PrintSubscription(out, &views[i])
		}
		return nil
	},
}
