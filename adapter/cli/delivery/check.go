package delivery

import (
	"fmt"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <subscription-id> <date>",
	Short: "Show whether there is a delivery on a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid subscription ID: %w", err)
		}
		date, err := domain.ParseDate(args[1])
		if err != nil {
			return err
		}

		delivers, err := app.Deliveries.Materialize(cmd.Context(), id, date)
		if err != nil {
			return fmt.Errorf("failed to check delivery: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", date, describe(delivers, false))
		return nil
	},
}
