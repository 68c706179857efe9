package subscription

import (
	"fmt"
	"strings"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/spf13/cobra"
)

var createFlags cli.SelectionFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Subscribe to newspapers and milk",
	Long: `Price the selection and start its payment.

The subscription becomes active once the payment is confirmed. Without a
configured payment provider it starts out awaiting a manual payment.

Examples:
  dailyease subscription create -p lokmat -m "Amul:cow:2" -f weekly
  dailyease subscription create -p pune-times -f monthly`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		sel, frequency, err := createFlags.Parse()
		if err != nil {
			return err
		}

		creation, err := app.Subscriptions.CreateSubscription(cmd.Context(), sel, frequency, app.CurrentSubscriberID)
		if creation == nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Subscription requested")
		fmt.Fprintln(out, strings.Repeat("-", 40))
		fmt.Fprintf(out, "  Subscription ID: %s\n", creation.SubscriptionID)
		cli.PrintQuote(out, creation.Quote)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Payment")
		cli.PrintHandle(out, creation.Payment)

		if sharedDomain.IsKind(err, sharedDomain.KindGatewayUnavailable) {
			fmt.Fprintf(out, "\nPayment provider unavailable. Retry with: dailyease payment retry %s\n", creation.AttemptID)
		}
		return err
	},
}

func init() {
	createFlags.Bind(createCmd)
}
