package subscription

import (
	"fmt"
	"time"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var pauseDays int

var pauseCmd = &cobra.Command{
	Use:   "pause <subscription-id>",
	Short: "Pause deliveries for a number of days",
	Long: `Pause deliveries starting today.

Examples:
  dailyease subscription pause 550e8400-e29b-41d4-a716-446655440000
  dailyease subscription pause 550e8400-e29b-41d4-a716-446655440000 --days 14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid subscription ID: %w", err)
		}

		view, err := app.Subscriptions.Pause(cmd.Context(), id, pauseDays)
		if err != nil {
			return fmt.Errorf("failed to pause subscription: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Subscription paused until %s\n", view.PausedUntil.Format(time.DateOnly))
		return nil
	},
}

func init() {
	pauseCmd.Flags().IntVarP(&pauseDays, "days", "d", 7, "number of days to pause")
}
