package payment

import (
	"fmt"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	orderID         string
	paymentID       string
	signature       string
	paymentIntentID string
	reference       string
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <attempt-id>",
	Short: "Confirm a payment attempt",
	Long: `Confirm a payment attempt with the proof for its provider.

Give exactly one kind of proof:
  checkout: --order, --payment and --signature from the provider callback
  card:     --intent with the confirmed payment intent
  manual:   --reference with the receipt reference

Examples:
  dailyease payment confirm <attempt-id> --order order_1 --payment pay_1 --signature 3f9a...
  dailyease payment confirm <attempt-id> --reference cash-2026-04-01`,
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

		proof, err := proofFromFlags()
		if err != nil {
			return err
		}

		confirmation, err := app.Payments.Confirm(cmd.Context(), attemptID, proof)
		if confirmation == nil {
			return fmt.Errorf("failed to confirm payment: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Payment %s\n", confirmation.Status)
		fmt.Fprintf(out, "  Subscription ID: %s\n", confirmation.SubscriptionID)
		if confirmation.ProviderReference != "" {
			fmt.Fprintf(out, "  Reference:       %s\n", confirmation.ProviderReference)
		}
		if confirmation.FailureReason != "" {
			fmt.Fprintf(out, "  Reason:          %s\n", confirmation.FailureReason)
			fmt.Fprintf(out, "Retry with: dailyease payment retry %s\n", confirmation.AttemptID)
		}
		return err
	},
}

func proofFromFlags() (paymentsDomain.Proof, error) {
	var proofs []paymentsDomain.Proof
	if orderID != "" || paymentID != "" || signature != "" {
		proofs = append(proofs, paymentsDomain.RedirectProof{OrderID: orderID, PaymentID: paymentID, Signature: signature})
	}
	if paymentIntentID != "" {
		proofs = append(proofs, paymentsDomain.CardProof{PaymentIntentID: paymentIntentID})
	}
	if reference != "" {
		proofs = append(proofs, paymentsDomain.ManualProof{Reference: reference})
	}
	if len(proofs) != 1 {
		return nil, fmt.Errorf("give exactly one proof: checkout, card or manual")
	}
	return proofs[0], nil
}

func init() {
	confirmCmd.Flags().StringVar(&orderID, "order", "", "checkout order id")
	confirmCmd.Flags().StringVar(&paymentID, "payment", "", "checkout payment id")
	confirmCmd.Flags().StringVar(&signature, "signature", "", "checkout callback signature")
	confirmCmd.Flags().StringVar(&paymentIntentID, "intent", "", "card payment intent id")
	confirmCmd.Flags().StringVar(&reference, "reference", "", "manual receipt reference")
}
