package delivery

import (
	"fmt"
	"time"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	fromDate string
	toDate   string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar <subscription-id>",
	Short: "Show deliveries for a date range",
	Long: `Show the delivery of every day in a range, at most a year.

The range defaults to the next 14 days.

Examples:
  dailyease delivery calendar 550e8400-e29b-41d4-a716-446655440000
  dailyease delivery calendar 550e8400-e29b-41d4-a716-446655440000 --from 2026-04-01 --to 2026-04-30`,
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

		from := domain.DateOf(time.Now())
		if fromDate != "" {
			if from, err = domain.ParseDate(fromDate); err != nil {
				return err
			}
		}
		to := from.AddDays(13)
		if toDate != "" {
			if to, err = domain.ParseDate(toDate); err != nil {
				return err
			}
		}

		days, err := app.Deliveries.Calendar(cmd.Context(), id, from, to)
		if err != nil {
			return fmt.Errorf("failed to load calendar: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, d := range days {
			fmt.Fprintf(out, "%s %s  %s\n", d.Date, d.Date.Weekday().String()[:3], describe(d.Delivers, d.Overridden))
		}
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVar(&fromDate, "from", "", "first day (YYYY-MM-DD, default today)")
	calendarCmd.Flags().StringVar(&toDate, "to", "", "last day (YYYY-MM-DD, default from + 13 days)")
}
