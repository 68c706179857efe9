package domain

import (
	"time"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
)

const AggregateType = "subscription"

const (
	RoutingKeyActivated = "subscriptions.subscription.activated"
	RoutingKeyPaused    = "subscriptions.subscription.paused"
	RoutingKeyResumed   = "subscriptions.subscription.resumed"
)

// Activated is raised when a subscription is created and again when an
// awaiting subscription is settled.
type Activated struct {
	sharedDomain.BaseEvent
	SubscriberID uuid.UUID    `json:"subscriber_id"`
	Frequency    string       `json:"frequency"`
	Amount       int64        `json:"amount"`
	Currency     string       `json:"currency"`
	PaymentState PaymentState `json:"payment_state"`
}

type Paused struct {
	sharedDomain.BaseEvent
	SubscriberID uuid.UUID `json:"subscriber_id"`
	PausedFrom   time.Time `json:"paused_from"`
	PausedUntil  time.Time `json:"paused_until"`
}

type Resumed struct {
	sharedDomain.BaseEvent
	SubscriberID uuid.UUID `json:"subscriber_id"`
}

func newActivated(s *Subscription, at time.Time) *Activated {
	return &Activated{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyActivated, at),
		SubscriberID: s.subscriberID,
		Frequency:    string(s.frequency),
		Amount:       s.total.Amount,
		Currency:     s.total.Currency,
		PaymentState: s.paymentState,
	}
}

func newPaused(s *Subscription, at time.Time) *Paused {
	return &Paused{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyPaused, at),
		SubscriberID: s.subscriberID,
		PausedFrom:   *s.pausedFrom,
		PausedUntil:  *s.pausedUntil,
	}
}

func newResumed(s *Subscription, at time.Time) *Resumed {
	return &Resumed{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), AggregateType, RoutingKeyResumed, at),
		SubscriberID: s.subscriberID,
	}
}
