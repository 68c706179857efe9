// Package domain holds the subscription aggregate.
package domain

import (
	"context"
	"time"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
)

// PaymentState says whether a subscription has been paid for.
type PaymentState string

const (
	PaymentPaid     PaymentState = "paid"
	PaymentAwaiting PaymentState = "awaiting_payment"
)

// Subscription is a paid-for or awaiting-payment delivery plan. It is never
// deleted.
type Subscription struct {
	sharedDomain.BaseAggregateRoot
	subscriberID uuid.UUID
	selection    pricingDomain.SelectionSet
	frequency    pricingDomain.Frequency
	total        pricingDomain.Money
	isPaused     bool
	pausedFrom   *time.Time
	pausedUntil  *time.Time
	paymentState PaymentState
	activatedAt  *time.Time
}

// Terms is what a subscription is created from: the frozen draft of the
// payment that activated it.
type Terms struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	Selection    pricingDomain.SelectionSet
	Frequency    pricingDomain.Frequency
	Total        pricingDomain.Money
}

// NewSubscription creates a subscription. It starts out paid, or awaiting a
// manual payment when paid is false. Deliveries start at now either way.
func NewSubscription(terms Terms, paid bool, now time.Time) (*Subscription, error) {
	const op = "new subscription"
	if terms.ID == uuid.Nil || terms.SubscriberID == uuid.Nil {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "subscription and subscriber ids are required")
	}
	if terms.Selection.IsZero() {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "selection is required")
	}
	if !terms.Frequency.IsValid() {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, op, "unknown frequency %q", terms.Frequency)
	}

	state := PaymentAwaiting
	if paid {
		state = PaymentPaid
	}
	at := now.UTC()
	s := &Subscription{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(terms.ID, now),
		subscriberID:      terms.SubscriberID,
		selection:         terms.Selection,
		frequency:         terms.Frequency,
		total:             terms.Total,
		paymentState:      state,
		activatedAt:       &at,
	}
	s.AddDomainEvent(newActivated(s, now))
	return s, nil
}

// Settle records the payment of an awaiting subscription. It reports false
// when the subscription was already paid.
func (s *Subscription) Settle(now time.Time) bool {
	if s.paymentState == PaymentPaid {
		return false
	}
	s.paymentState = PaymentPaid
	s.Touch(now)
	s.AddDomainEvent(newActivated(s, now))
	return true
}

// Pause stops deliveries for days days starting now.
func (s *Subscription) Pause(days int, now time.Time) error {
	if days <= 0 {
		return sharedDomain.Errorf(sharedDomain.KindValidation, "pause subscription", "pause days must be positive, got %d", days)
	}
	from := now.UTC()
	until := from.AddDate(0, 0, days)
	s.isPaused = true
	s.pausedFrom = &from
	s.pausedUntil = &until
	s.Touch(now)
	s.AddDomainEvent(newPaused(s, now))
	return nil
}

// Resume clears the pause. Resuming an active subscription changes nothing
// and reports false.
func (s *Subscription) Resume(now time.Time) bool {
	if !s.isPaused {
		return false
	}
	s.isPaused = false
	s.pausedFrom = nil
	s.pausedUntil = nil
	s.Touch(now)
	s.AddDomainEvent(newResumed(s, now))
	return true
}

func (s *Subscription) SubscriberID() uuid.UUID               { return s.subscriberID }
func (s *Subscription) Selection() pricingDomain.SelectionSet { return s.selection }
func (s *Subscription) Frequency() pricingDomain.Frequency    { return s.frequency }
func (s *Subscription) Total() pricingDomain.Money            { return s.total }
func (s *Subscription) IsPaused() bool                        { return s.isPaused }
func (s *Subscription) PausedFrom() *time.Time                { return s.pausedFrom }
func (s *Subscription) PausedUntil() *time.Time               { return s.pausedUntil }
func (s *Subscription) PaymentState() PaymentState            { return s.paymentState }
func (s *Subscription) ActivatedAt() *time.Time               { return s.activatedAt }

// Snapshot is the persisted form of a Subscription.
type Snapshot struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	Selection    pricingDomain.SelectionSet
	Frequency    pricingDomain.Frequency
	Total        pricingDomain.Money
	IsPaused     bool
	PausedFrom   *time.Time
	PausedUntil  *time.Time
	PaymentState PaymentState
	ActivatedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Rehydrate rebuilds a subscription from storage.
func Rehydrate(s Snapshot) *Subscription {
	return &Subscription{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		),
		subscriberID: s.SubscriberID,
		selection:    s.Selection,
		frequency:    s.Frequency,
		total:        s.Total,
		isPaused:     s.IsPaused,
		pausedFrom:   s.PausedFrom,
		pausedUntil:  s.PausedUntil,
		paymentState: s.PaymentState,
		activatedAt:  s.ActivatedAt,
	}
}

func (s *Subscription) Snapshot() Snapshot {
	return Snapshot{
		ID:           s.ID(),
		SubscriberID: s.subscriberID,
		Selection:    s.selection,
		Frequency:    s.frequency,
		Total:        s.total,
		IsPaused:     s.isPaused,
		PausedFrom:   s.pausedFrom,
		PausedUntil:  s.pausedUntil,
		PaymentState: s.paymentState,
		ActivatedAt:  s.activatedAt,
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
	}
}

// Repository persists subscriptions. FindByID returns a NotFound error for
// an unknown id.
type Repository interface {
	Save(ctx context.Context, s *Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// ListBySubscriber returns oldest first.
	ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]*Subscription, error)
}
