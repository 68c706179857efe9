package subscription

import (
	"fmt"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <subscription-id>",
	Short: "Resume a paused subscription",
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

		if _, err := app.Subscriptions.Resume(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to resume subscription: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Subscription resumed: %s\n", id)
		return nil
	},
}
