package application

import (
	"context"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// AttemptSummary is the read model of an attempt.
type AttemptSummary struct {
	ID                uuid.UUID            `json:"id"`
	SubscriptionID    uuid.UUID            `json:"subscription_id"`
	Amount            pricingDomain.Money  `json:"amount"`
	Provider          domain.ProviderKind  `json:"provider"`
	ProviderReference string               `json:"provider_reference,omitempty"`
	Status            domain.AttemptStatus `json:"status"`
	FailureReason     domain.FailureReason `json:"failure_reason,omitempty"`
	RetryOf           *uuid.UUID           `json:"retry_of,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	CompletedAt       *time.Time           `json:"completed_at,omitempty"`
}

func summarize(attempts []*domain.Attempt) []AttemptSummary {
	out := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, AttemptSummary{
			ID:                a.ID(),
			SubscriptionID:    a.SubscriptionID(),
			Amount:            a.Amount(),
			Provider:          a.Provider(),
			ProviderReference: a.ProviderReference(),
			Status:            a.Status(),
			FailureReason:     a.FailureReason(),
			RetryOf:           a.RetryOf(),
			CreatedAt:         a.CreatedAt(),
			CompletedAt:       a.CompletedAt(),
		})
	}
	return out
}

// saveAttempt stores the attempt and its pending events in the caller's
// transaction.
func saveAttempt(txCtx context.Context, attempts domain.Repository, outboxRepo outbox.Repository, a *domain.Attempt) error {
	if err := attempts.Save(txCtx, a); err != nil {
		return err
	}

	events := a.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.EventMetadataFromContext(txCtx, a.SubscriberID()))
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(txCtx, msgs); err != nil {
		return err
	}
	a.ClearDomainEvents()
	return nil
}
