package domain

import (
	"context"
	"time"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/google/uuid"
)

// Repository persists attempts. FindByID returns a NotFound error for an
// unknown id.
type Repository interface {
	Save(ctx context.Context, attempt *Attempt) error
	FindByID(ctx context.Context, id uuid.UUID) (*Attempt, error)
	// ListBySubscriber returns newest first.
	ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]*Attempt, error)
	// ListBySubscription returns oldest first.
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*Attempt, error)
	// ListStale returns created or pending attempts not updated since before.
	ListStale(ctx context.Context, before time.Time, limit int) ([]*Attempt, error)
	// ExistsWithStatus reports whether the subscription has an attempt in any
	// of the statuses.
	ExistsWithStatus(ctx context.Context, subscriptionID uuid.UUID, statuses ...AttemptStatus) (bool, error)
}

// CardIntent is the handle a card processor returns for a new payment.
type CardIntent struct {
	HandleID     string
	ClientSecret string
}

// CardOutcome is what the processor reports about an intent.
type CardOutcome string

const (
	CardSucceeded  CardOutcome = "succeeded"
	CardInProgress CardOutcome = "in_progress"
	CardFailed     CardOutcome = "failed"
)

// CardVerification is the server-side view of a card payment.
type CardVerification struct {
	Outcome CardOutcome
	Amount  pricingDomain.Money
}

// CardGateway talks to the card processor. Unreachable or misconfigured
// processors surface as GatewayUnavailable errors.
type CardGateway interface {
	CreateIntent(ctx context.Context, amount pricingDomain.Money, idempotencyKey string) (CardIntent, error)
	Verify(ctx context.Context, handleID string, proof CardProof) (CardVerification, error)
}

// RedirectOrder is the handle a redirect checkout returns.
type RedirectOrder struct {
	OrderID string
}

// RedirectGateway talks to the redirect checkout provider.
type RedirectGateway interface {
	CreateOrder(ctx context.Context, amount pricingDomain.Money, receipt string) (RedirectOrder, error)
	// VerifySignature checks the callback signature locally.
	VerifySignature(orderID, paymentID, signature string) bool
	PaymentAmount(ctx context.Context, paymentID string) (pricingDomain.Money, error)
}

// Activation asks the subscription side to materialize a draft. Paid is false
// when the subscription starts out awaiting a manual payment.
type Activation struct {
	Draft     Draft
	AttemptID uuid.UUID
	Paid      bool
	At        time.Time
}

// SubscriptionActivator creates or settles the subscription for a draft. It
// runs inside the attempt's transaction.
type SubscriptionActivator interface {
	Activate(ctx context.Context, activation Activation) error
}
