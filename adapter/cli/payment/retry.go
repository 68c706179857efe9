package payment

import (
	"fmt"
	"strings"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var retryAmount int64

var retryCmd = &cobra.Command{
	Use:   "retry <attempt-id>",
	Short: "Retry a failed or stuck payment",
	Long: `Start a new attempt for the same subscription total.

Only the latest attempt of a subscription can be retried, and never once a
payment succeeded. --amount is in paise and must equal the subscription total.

Examples:
  dailyease payment retry 550e8400-e29b-41d4-a716-446655440000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		attemptID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid attempt ID: %w", err)
		}

		var amount pricingDomain.Money
		if retryAmount != 0 {
			amount = pricingDomain.INR(retryAmount)
		}

		handle, err := app.Payments.Retry(cmd.Context(), attemptID, amount)
		if handle == nil {
			return fmt.Errorf("failed to retry payment: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Payment retried")
		fmt.Fprintln(out, strings.Repeat("-", 40))
		cli.PrintHandle(out, handle)
		return err
	},
}

func init() {
	retryCmd.Flags().Int64Var(&retryAmount, "amount", 0, "amount in paise (defaults to the subscription total)")
}
