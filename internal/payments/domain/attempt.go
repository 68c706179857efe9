package domain

import (
	"time"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
)

// AttemptStatus is the position of an attempt in the payment state machine.
//
//	created -> pending        -> succeeded | failed
//	created -> pending_manual -> succeeded | failed
//	created -> failed
//
// succeeded and failed are terminal.
type AttemptStatus string

const (
	StatusCreated       AttemptStatus = "created"
	StatusPending       AttemptStatus = "pending"
	StatusPendingManual AttemptStatus = "pending_manual"
	StatusSucceeded     AttemptStatus = "succeeded"
	StatusFailed        AttemptStatus = "failed"
)

func (s AttemptStatus) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// FailureReason says why an attempt failed.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonVerificationFailed FailureReason = "verification_failed"
	ReasonAmountMismatch     FailureReason = "amount_mismatch"
	ReasonExpired            FailureReason = "expired"
	ReasonSuperseded         FailureReason = "superseded"
)

// Attempt is one try at paying for a draft subscription. A failed attempt is
// never reused; Retry creates a new one pointing back at it.
type Attempt struct {
	sharedDomain.BaseAggregateRoot
	subscriptionID    uuid.UUID
	subscriberID      uuid.UUID
	amount            pricingDomain.Money
	provider          ProviderKind
	providerReference string
	clientSecret      string
	status            AttemptStatus
	failureReason     FailureReason
	retryOf           *uuid.UUID
	draft             Draft
	completedAt       *time.Time
}

// NewAttempt creates a created attempt for draft using provider. retryOf is
// the attempt this one replaces, if any.
func NewAttempt(draft Draft, provider ProviderKind, retryOf *uuid.UUID, now time.Time) (*Attempt, error) {
	const op = "new payment attempt"
	if draft.SubscriptionID == uuid.Nil || draft.SubscriberID == uuid.Nil {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "draft needs subscription and subscriber ids")
	}
	if draft.Selection.IsZero() {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "draft has no selection")
	}
	if !draft.Total.IsPositive() {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "amount must be positive")
	}
	if _, err := ParseProviderKind(string(provider)); err != nil {
		return nil, err
	}

	a := &Attempt{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(uuid.New(), now),
		subscriptionID:    draft.SubscriptionID,
		subscriberID:      draft.SubscriberID,
		amount:            draft.Total,
		provider:          provider,
		status:            StatusCreated,
		retryOf:           retryOf,
		draft:             draft,
	}
	a.AddDomainEvent(newAttemptCreated(a, now))
	return a, nil
}

// AttemptSnapshot is the persisted form of an Attempt.
type AttemptSnapshot struct {
	ID                uuid.UUID
	SubscriptionID    uuid.UUID
	SubscriberID      uuid.UUID
	Amount            pricingDomain.Money
	Provider          ProviderKind
	ProviderReference string
	ClientSecret      string
	Status            AttemptStatus
	FailureReason     FailureReason
	RetryOf           *uuid.UUID
	Draft             Draft
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

// RehydrateAttempt rebuilds an attempt from storage.
func RehydrateAttempt(s AttemptSnapshot) *Attempt {
	return &Attempt{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		),
		subscriptionID:    s.SubscriptionID,
		subscriberID:      s.SubscriberID,
		amount:            s.Amount,
		provider:          s.Provider,
		providerReference: s.ProviderReference,
		clientSecret:      s.ClientSecret,
		status:            s.Status,
		failureReason:     s.FailureReason,
		retryOf:           s.RetryOf,
		draft:             s.Draft,
		completedAt:       s.CompletedAt,
	}
}

// Snapshot returns the persisted form.
func (a *Attempt) Snapshot() AttemptSnapshot {
	return AttemptSnapshot{
		ID:                a.ID(),
		SubscriptionID:    a.subscriptionID,
		SubscriberID:      a.subscriberID,
		Amount:            a.amount,
		Provider:          a.provider,
		ProviderReference: a.providerReference,
		ClientSecret:      a.clientSecret,
		Status:            a.status,
		FailureReason:     a.failureReason,
		RetryOf:           a.retryOf,
		Draft:             a.draft,
		CreatedAt:         a.CreatedAt(),
		UpdatedAt:         a.UpdatedAt(),
		CompletedAt:       a.completedAt,
	}
}

func (a *Attempt) SubscriptionID() uuid.UUID    { return a.subscriptionID }
func (a *Attempt) SubscriberID() uuid.UUID      { return a.subscriberID }
func (a *Attempt) Amount() pricingDomain.Money  { return a.amount }
func (a *Attempt) Provider() ProviderKind       { return a.provider }
func (a *Attempt) ProviderReference() string    { return a.providerReference }
func (a *Attempt) Status() AttemptStatus        { return a.status }
func (a *Attempt) FailureReason() FailureReason { return a.failureReason }
func (a *Attempt) RetryOf() *uuid.UUID          { return a.retryOf }
func (a *Attempt) Draft() Draft                 { return a.draft }
func (a *Attempt) CompletedAt() *time.Time      { return a.completedAt }
func (a *Attempt) IsTerminal() bool             { return a.status.IsTerminal() }

// Continuation tells the subscriber how to continue paying.
func (a *Attempt) Continuation() Provider {
	switch a.provider {
	case ProviderCard:
		return Card{ClientSecret: a.clientSecret}
	case ProviderRedirect:
		return Redirect{OrderID: a.providerReference}
	default:
		return Manual{}
	}
}

// MarkPending records the provider handle returned by the gateway.
func (a *Attempt) MarkPending(reference, clientSecret string, now time.Time) error {
	if a.status != StatusCreated {
		return a.transitionError("mark pending")
	}
	if a.provider == ProviderManual {
		return sharedDomain.NewError(sharedDomain.KindPrecondition, "mark pending", "manual attempts have no provider handle")
	}
	if reference == "" {
		return sharedDomain.NewError(sharedDomain.KindValidation, "mark pending", "provider reference is required")
	}
	a.providerReference = reference
	a.clientSecret = clientSecret
	a.status = StatusPending
	a.Touch(now)
	return nil
}

// MarkPendingManual moves the attempt to manual collection. The provider
// becomes manual whatever was selected before.
func (a *Attempt) MarkPendingManual(now time.Time) error {
	if a.status != StatusCreated {
		return a.transitionError("mark pending manual")
	}
	a.provider = ProviderManual
	a.providerReference = ""
	a.clientSecret = ""
	a.status = StatusPendingManual
	a.Touch(now)
	return nil
}

// Succeed completes a pending attempt. reference overrides the stored
// provider reference when non-empty, e.g. a manual receipt number.
func (a *Attempt) Succeed(reference string, now time.Time) error {
	if a.status != StatusPending && a.status != StatusPendingManual {
		return a.transitionError("succeed")
	}
	if reference != "" {
		a.providerReference = reference
	}
	a.status = StatusSucceeded
	a.failureReason = ReasonNone
	at := now.UTC()
	a.completedAt = &at
	a.Touch(now)
	a.AddDomainEvent(newAttemptSucceeded(a, now))
	return nil
}

// Fail ends a non-terminal attempt.
func (a *Attempt) Fail(reason FailureReason, now time.Time) error {
	if a.status.IsTerminal() {
		return a.transitionError("fail")
	}
	a.status = StatusFailed
	a.failureReason = reason
	at := now.UTC()
	a.completedAt = &at
	a.Touch(now)
	a.AddDomainEvent(newAttemptFailed(a, now))
	return nil
}

func (a *Attempt) transitionError(op string) error {
	return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "attempt %s is %s", a.ID(), a.status)
}
