package domain

import (
	"time"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
)

const AggregateType = "payment_attempt"

const (
	RoutingKeyAttemptCreated   = "payments.attempt.created"
	RoutingKeyAttemptSucceeded = "payments.attempt.succeeded"
	RoutingKeyAttemptFailed    = "payments.attempt.failed"
)

// AttemptCreated is raised when an attempt is first stored.
type AttemptCreated struct {
	sharedDomain.BaseEvent
	SubscriptionID uuid.UUID    `json:"subscription_id"`
	SubscriberID   uuid.UUID    `json:"subscriber_id"`
	Amount         int64        `json:"amount"`
	Currency       string       `json:"currency"`
	Provider       ProviderKind `json:"provider"`
	RetryOf        *uuid.UUID   `json:"retry_of,omitempty"`
}

// AttemptSucceeded is raised once, on the transition into succeeded.
type AttemptSucceeded struct {
	sharedDomain.BaseEvent
	SubscriptionID    uuid.UUID    `json:"subscription_id"`
	SubscriberID      uuid.UUID    `json:"subscriber_id"`
	Amount            int64        `json:"amount"`
	Currency          string       `json:"currency"`
	Provider          ProviderKind `json:"provider"`
	ProviderReference string       `json:"provider_reference"`
}

// AttemptFailed is raised on the transition into failed.
type AttemptFailed struct {
	sharedDomain.BaseEvent
	SubscriptionID uuid.UUID     `json:"subscription_id"`
	SubscriberID   uuid.UUID     `json:"subscriber_id"`
	Reason         FailureReason `json:"reason"`
}

func newAttemptCreated(a *Attempt, at time.Time) *AttemptCreated {
	return &AttemptCreated{
		BaseEvent:      sharedDomain.NewBaseEvent(a.ID(), AggregateType, RoutingKeyAttemptCreated, at),
		SubscriptionID: a.subscriptionID,
		SubscriberID:   a.subscriberID,
		Amount:         a.amount.Amount,
		Currency:       a.amount.Currency,
		Provider:       a.provider,
		RetryOf:        a.retryOf,
	}
}

func newAttemptSucceeded(a *Attempt, at time.Time) *AttemptSucceeded {
	return &AttemptSucceeded{
		BaseEvent:         sharedDomain.NewBaseEvent(a.ID(), AggregateType, RoutingKeyAttemptSucceeded, at),
		SubscriptionID:    a.subscriptionID,
		SubscriberID:      a.subscriberID,
		Amount:            a.amount.Amount,
		Currency:          a.amount.Currency,
		Provider:          a.provider,
		ProviderReference: a.providerReference,
	}
}

func newAttemptFailed(a *Attempt, at time.Time) *AttemptFailed {
	return &AttemptFailed{
		BaseEvent:      sharedDomain.NewBaseEvent(a.ID(), AggregateType, RoutingKeyAttemptFailed, at),
		SubscriptionID: a.subscriptionID,
		SubscriberID:   a.subscriberID,
		Reason:         a.failureReason,
	}
}
