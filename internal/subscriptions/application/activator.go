package application

import (
	"context"
	"log/slog"

	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
)

// Activator materializes paid drafts as subscriptions. It runs inside the
// payment's transaction, under the subscription lock the payment holds.
type Activator struct {
	subscriptions domain.Repository
	outboxRepo    outbox.Repository
	logger        *slog.Logger
}

func NewActivator(subscriptions domain.Repository, outboxRepo outbox.Repository, logger *slog.Logger) *Activator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Activator{subscriptions: subscriptions, outboxRepo: outboxRepo, logger: logger.With("component", "subscriptions")}
}

// Activate creates the draft's subscription, or settles it when it was
// created awaiting a manual payment. Activating a paid subscription again
// does nothing.
func (a *Activator) Activate(ctx context.Context, activation paymentsDomain.Activation) error {
	draft := activation.Draft
	sub, err := a.subscriptions.FindByID(ctx, draft.SubscriptionID)
	switch {
	case sharedDomain.IsKind(err, sharedDomain.KindNotFound):
		sub, err = domain.NewSubscription(domain.Terms{
			ID:           draft.SubscriptionID,
			SubscriberID: draft.SubscriberID,
			Selection:    draft.Selection,
			Frequency:    draft.Frequency,
			Total:        draft.Total,
		}, activation.Paid, activation.At)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	case activation.Paid:
		if !sub.Settle(activation.At) {
			return nil
		}
	default:
		return nil
	}

	if err := saveSubscription(ctx, a.subscriptions, a.outboxRepo, sub); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "subscription activated",
		"subscription_id", sub.ID(),
		"attempt_id", activation.AttemptID,
		"payment_state", sub.PaymentState(),
	)
	return nil
}

var _ paymentsDomain.SubscriptionActivator = (*Activator)(nil)
