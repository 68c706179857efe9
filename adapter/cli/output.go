package cli

import (
	"fmt"
	"io"
	"time"

	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	subscriptionsApplication "github.com/Animesh0711/DailyEase/internal/subscriptions/application"
)

// PrintHandle writes how to continue a payment attempt.
func PrintHandle(w io.Writer, h *paymentsApplication.Handle) {
	fmt.Fprintf(w, "  Attempt ID: %s\n", h.AttemptID)
	fmt.Fprintf(w, "  Status:     %s\n", h.Status)
	fmt.Fprintf(w, "  Amount:     %s\n", h.Amount)
	switch p := h.Provider.(type) {
	case paymentsDomain.Card:
		fmt.Fprintf(w, "  Card:       confirm with client secret %s\n", p.ClientSecret)
	case paymentsDomain.Redirect:
		fmt.Fprintf(w, "  Checkout:   complete order %s\n", p.OrderID)
	case paymentsDomain.Manual:
		fmt.Fprintln(w, "  Manual:     awaiting payment; confirm with a receipt reference")
	}
	if h.RetryOf != nil {
		fmt.Fprintf(w, "  Retry of:   %s\n", *h.RetryOf)
	}
}

// PrintSubscription writes one subscription.
func PrintSubscription(w io.Writer, v *subscriptionsApplication.View) {
	fmt.Fprintf(w, "  ID:         %s\n", v.ID)
	fmt.Fprintf(w, "  Newspapers: %v\n", v.Selection.Newspapers())
	for _, line := range v.Selection.MilkLines() {
		fmt.Fprintf(w, "  Milk:       %s %s x%d\n", line.Brand, line.Type, line.Units)
	}
	fmt.Fprintf(w, "  Frequency:  %s\n", v.Frequency)
	fmt.Fprintf(w, "  Total:      %s\n", v.Total)
	fmt.Fprintf(w, "  Payment:    %s\n", v.PaymentState)
	if v.IsPaused && v.PausedUntil != nil {
		fmt.Fprintf(w, "  Paused:     until %s\n", v.PausedUntil.Format(time.DateOnly))
	}
}
