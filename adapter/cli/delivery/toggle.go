package delivery

import (
	"fmt"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <subscription-id> <date>",
	Short: "Flip delivery for one day",
	Long: `Flip delivery for one day. Running it twice for the same day restores
the default schedule.

Examples:
  dailyease delivery toggle 550e8400-e29b-41d4-a716-446655440000 2026-04-12`,
	Args: cobra.ExactArgs(2),
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

		state, err := app.Deliveries.Toggle(cmd.Context(), id, date)
		if err != nil {
			return fmt.Errorf("failed to toggle delivery: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state.Date, describe(state.Delivers, state.Overridden))
		return nil
	},
}

func describe(delivers, overridden bool) string {
	s := "no delivery"
	if delivers {
		s = "delivery"
	}
	if overridden {
		s += " (changed)"
	}
	return s
}
