package subscription

import (
	"fmt"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <subscription-id>",
	Short: "Show one subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid subscription ID: %w", err)
		}

		view, err := app.Subscriptions.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		cli.PrintSubscription(cmd.OutOrStdout(), view)
		return nil
	},
}
