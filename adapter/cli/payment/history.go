package payment

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your payment attempts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		attempts, err := app.Payments.History(cmd.Context(), app.CurrentSubscriberID)
		if err != nil {
			return fmt.Errorf("failed to load payment history: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No payments yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ATTEMPT\tSUBSCRIPTION\tAMOUNT\tPROVIDER\tSTATUS\tCREATED")
		for _, a := range attempts {
			status := string(a.Status)
			if a.FailureReason != "" {
				status += " (" + string(a.FailureReason) + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.SubscriptionID, a.Amount, a.Provider, status, a.CreatedAt.Format(time.DateTime))
		}
		return w.Flush()
	},
}
